// Package reminders owns every read and write of reminder lists, items and
// the per-user selected list, and enforces that users only ever touch
// their own data.
//
// A Store wraps the database; Store.For binds it to one owner. Every
// operation on the resulting Storage is scoped to that owner: lookups fail
// with ErrNotFound when the record does not exist and ErrForbidden when it
// belongs to somebody else, in that order.
package reminders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/eleven-am/bulldoggy/internal/database"
	"github.com/eleven-am/bulldoggy/internal/logger"
)

var (
	listColumns = []string{"id", "owner", "name"}
	itemColumns = []string{"id", "list_id", "description", "completed"}
)

// Store is the shared entry point. It is safe for concurrent use.
type Store struct {
	exec database.DBExecutor
	ph   squirrel.PlaceholderFormat
}

func NewStore(exec database.DBExecutor) *Store {
	return &Store{
		exec: exec,
		ph:   database.Placeholder(exec.DriverName()),
	}
}

// For returns a Storage scoped to owner.
func (s *Store) For(owner string) *Storage {
	return &Storage{
		owner: owner,
		exec:  s.exec,
		ph:    s.ph,
		log:   logger.Store().WithField("owner", owner),
	}
}

// Storage performs reminder operations on behalf of a single owner.
type Storage struct {
	owner string
	exec  database.DBExecutor
	ph    squirrel.PlaceholderFormat
	log   logger.Logger
}

// Owner returns the username this storage is scoped to.
func (s *Storage) Owner() string {
	return s.owner
}

func (s *Storage) withExec(exec database.DBExecutor) *Storage {
	clone := *s
	clone.exec = exec
	return &clone
}

func (s *Storage) sq() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(s.ph)
}

// get runs a single-row select into dest.
func (s *Storage) get(ctx context.Context, dest interface{}, b squirrel.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return s.exec.GetContext(ctx, dest, query, args...)
}

func (s *Storage) selectAll(ctx context.Context, dest interface{}, b squirrel.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return s.exec.SelectContext(ctx, dest, query, args...)
}

func (s *Storage) run(ctx context.Context, b squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return s.exec.ExecContext(ctx, query, args...)
}

func (s *Storage) insertReturningID(ctx context.Context, b squirrel.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.exec.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Private lookups

func (s *Storage) getRawList(ctx context.Context, op string, listID int64) (*ReminderList, error) {
	var list ReminderList
	err := s.get(ctx, &list, s.sq().Select(listColumns...).
		From(database.TableLists).
		Where(squirrel.Eq{"id": listID}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(op, "list", listID)
	}
	if err != nil {
		return nil, database.ParseError(err, op, database.TableLists)
	}

	if list.Owner != s.owner {
		return nil, forbidden(op, "list", listID)
	}
	return &list, nil
}

// getRawItem also re-validates the parent list on every read.
func (s *Storage) getRawItem(ctx context.Context, op string, itemID int64) (*ReminderItem, error) {
	var item ReminderItem
	err := s.get(ctx, &item, s.sq().Select(itemColumns...).
		From(database.TableItems).
		Where(squirrel.Eq{"id": itemID}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(op, "item", itemID)
	}
	if err != nil {
		return nil, database.ParseError(err, op, database.TableItems)
	}

	if _, err := s.getRawList(ctx, op, item.ListID); err != nil {
		return nil, err
	}
	return &item, nil
}

// Reminder lists

// CreateList inserts a new list owned by the caller and returns its id.
// Names need not be unique.
func (s *Storage) CreateList(ctx context.Context, name string) (int64, error) {
	id, err := s.insertReturningID(ctx, s.sq().Insert(database.TableLists).
		Columns("owner", "name").
		Values(s.owner, name))
	if err != nil {
		return 0, database.ParseError(err, "create_list", database.TableLists)
	}

	s.log.Debug("list created", "list_id", id)
	return id, nil
}

func (s *Storage) GetList(ctx context.Context, listID int64) (*ReminderList, error) {
	return s.getRawList(ctx, "get_list", listID)
}

// GetLists returns the caller's lists in creation order.
func (s *Storage) GetLists(ctx context.Context) ([]ReminderList, error) {
	lists := []ReminderList{}
	err := s.selectAll(ctx, &lists, s.sq().Select(listColumns...).
		From(database.TableLists).
		Where(squirrel.Eq{"owner": s.owner}).
		OrderBy("id"))
	if err != nil {
		return nil, database.ParseError(err, "get_lists", database.TableLists)
	}
	return lists, nil
}

func (s *Storage) UpdateListName(ctx context.Context, listID int64, newName string) error {
	const op = "update_list_name"
	if _, err := s.getRawList(ctx, op, listID); err != nil {
		return err
	}

	_, err := s.run(ctx, s.sq().Update(database.TableLists).
		Set("name", newName).
		Where(squirrel.Eq{"id": listID}))
	if err != nil {
		return database.ParseError(err, op, database.TableLists)
	}
	return nil
}

// DeleteList removes the list and all of its items atomically.
func (s *Storage) DeleteList(ctx context.Context, listID int64) error {
	const op = "delete_list"
	return database.WithTx(ctx, s.exec, func(tx database.DBExecutor) error {
		ts := s.withExec(tx)
		if _, err := ts.getRawList(ctx, op, listID); err != nil {
			return err
		}

		if _, err := ts.run(ctx, ts.sq().Delete(database.TableLists).Where(squirrel.Eq{"id": listID})); err != nil {
			return database.ParseError(err, op, database.TableLists)
		}
		res, err := ts.run(ctx, ts.sq().Delete(database.TableItems).Where(squirrel.Eq{"list_id": listID}))
		if err != nil {
			return database.ParseError(err, op, database.TableItems)
		}

		if n, err := res.RowsAffected(); err == nil {
			s.log.Debug("list deleted", "list_id", listID, "items", n)
		}
		return nil
	})
}

// DeleteLists deletes every list the caller owns.
func (s *Storage) DeleteLists(ctx context.Context) error {
	return database.WithTx(ctx, s.exec, func(tx database.DBExecutor) error {
		ts := s.withExec(tx)
		lists, err := ts.GetLists(ctx)
		if err != nil {
			return err
		}
		for _, list := range lists {
			if err := ts.DeleteList(ctx, list.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reminder items

// AddItem appends an incomplete item to a list the caller owns.
func (s *Storage) AddItem(ctx context.Context, listID int64, description string) (int64, error) {
	const op = "add_item"
	if _, err := s.getRawList(ctx, op, listID); err != nil {
		return 0, err
	}

	id, err := s.insertReturningID(ctx, s.sq().Insert(database.TableItems).
		Columns("list_id", "description", "completed").
		Values(listID, description, false))
	if err != nil {
		return 0, database.ParseError(err, op, database.TableItems)
	}
	return id, nil
}

func (s *Storage) GetItem(ctx context.Context, itemID int64) (*ReminderItem, error) {
	return s.getRawItem(ctx, "get_item", itemID)
}

func (s *Storage) GetItems(ctx context.Context, listID int64) ([]ReminderItem, error) {
	const op = "get_items"
	if _, err := s.getRawList(ctx, op, listID); err != nil {
		return nil, err
	}

	items := []ReminderItem{}
	err := s.selectAll(ctx, &items, s.sq().Select(itemColumns...).
		From(database.TableItems).
		Where(squirrel.Eq{"list_id": listID}).
		OrderBy("id"))
	if err != nil {
		return nil, database.ParseError(err, op, database.TableItems)
	}
	return items, nil
}

func (s *Storage) UpdateItemDescription(ctx context.Context, itemID int64, newDescription string) error {
	const op = "update_item_description"
	if _, err := s.getRawItem(ctx, op, itemID); err != nil {
		return err
	}

	_, err := s.run(ctx, s.sq().Update(database.TableItems).
		Set("description", newDescription).
		Where(squirrel.Eq{"id": itemID}))
	if err != nil {
		return database.ParseError(err, op, database.TableItems)
	}
	return nil
}

// StrikeItem toggles the completed flag. Calling it twice is a no-op.
func (s *Storage) StrikeItem(ctx context.Context, itemID int64) error {
	const op = "strike_item"
	if _, err := s.getRawItem(ctx, op, itemID); err != nil {
		return err
	}

	_, err := s.run(ctx, s.sq().Update(database.TableItems).
		Set("completed", squirrel.Expr("NOT completed")).
		Where(squirrel.Eq{"id": itemID}))
	if err != nil {
		return database.ParseError(err, op, database.TableItems)
	}
	return nil
}

func (s *Storage) DeleteItem(ctx context.Context, itemID int64) error {
	const op = "delete_item"
	if _, err := s.getRawItem(ctx, op, itemID); err != nil {
		return err
	}

	_, err := s.run(ctx, s.sq().Delete(database.TableItems).Where(squirrel.Eq{"id": itemID}))
	if err != nil {
		return database.ParseError(err, op, database.TableItems)
	}
	return nil
}

// Selected lists

// GetSelectedListID returns the caller's selection pointer, or nil when
// nothing has been selected yet or the selection was cleared.
func (s *Storage) GetSelectedListID(ctx context.Context) (*int64, error) {
	var listID sql.NullInt64
	err := s.get(ctx, &listID, s.sq().Select("list_id").
		From(database.TableSelected).
		Where(squirrel.Eq{"owner": s.owner}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, database.ParseError(err, "get_selected_list_id", database.TableSelected)
	}

	if !listID.Valid {
		return nil, nil
	}
	id := listID.Int64
	return &id, nil
}

// GetSelectedList resolves the selection pointer to the list and its items.
// A pointer to a list that no longer exists or is not the caller's is reset
// to nil and reported as no selection.
func (s *Storage) GetSelectedList(ctx context.Context) (*SelectedList, error) {
	listID, err := s.GetSelectedListID(ctx)
	if err != nil || listID == nil {
		return nil, err
	}

	list, err := s.GetList(ctx, *listID)
	var items []ReminderItem
	if err == nil {
		items, err = s.GetItems(ctx, *listID)
	}
	if IsAccessError(err) {
		s.log.Info("clearing stale selection", "list_id", *listID)
		if err := s.SetSelectedList(ctx, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &SelectedList{
		ID:    list.ID,
		Owner: list.Owner,
		Name:  list.Name,
		Items: items,
	}, nil
}

// SetSelectedList upserts the caller's selection. A nil listID clears it.
// The pointer is not validated here; GetSelectedList heals stale values.
func (s *Storage) SetSelectedList(ctx context.Context, listID *int64) error {
	var value interface{}
	if listID != nil {
		value = *listID
	}

	_, err := s.run(ctx, s.sq().Insert(database.TableSelected).
		Columns("owner", "list_id").
		Values(s.owner, value).
		Suffix("ON CONFLICT (owner) DO UPDATE SET list_id = excluded.list_id"))
	if err != nil {
		return database.ParseError(err, "set_selected_list", database.TableSelected)
	}
	return nil
}

// ResetSelectedAfterDelete moves the selection off deletedID, onto the
// caller's first remaining list or nil when none remain.
func (s *Storage) ResetSelectedAfterDelete(ctx context.Context, deletedID int64) error {
	current, err := s.GetSelectedListID(ctx)
	if err != nil {
		return err
	}
	if current == nil || *current != deletedID {
		return nil
	}

	var first int64
	err = s.get(ctx, &first, s.sq().Select("id").
		From(database.TableLists).
		Where(squirrel.Eq{"owner": s.owner}).
		OrderBy("id").
		Limit(1))
	if errors.Is(err, sql.ErrNoRows) {
		return s.SetSelectedList(ctx, nil)
	}
	if err != nil {
		return database.ParseError(err, "reset_selected_after_delete", database.TableLists)
	}
	return s.SetSelectedList(ctx, &first)
}
