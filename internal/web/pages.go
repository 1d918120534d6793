package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/bulldoggy/internal/reminders"
)

// Public pages

func (s *Server) handleRoot(c *gin.Context) {
	if _, ok := s.resolver.FromCookie(c.Request); ok {
		c.Redirect(http.StatusFound, "/reminders")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Invalid":      c.Query("invalid") != "",
		"LoggedOut":    c.Query("logged_out") != "",
		"Unauthorized": c.Query("unauthorized") != "",
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	session, err := s.resolver.Login(c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		c.Redirect(http.StatusFound, "/login?invalid=True")
		return
	}

	http.SetCookie(c.Writer, s.resolver.Cookie(session))
	c.Redirect(http.StatusFound, "/reminders")
}

func (s *Server) handleLogout(c *gin.Context) {
	http.SetCookie(c.Writer, s.resolver.ExpiredCookie())
	c.Redirect(http.StatusFound, "/login?logged_out=True")
}

func (s *Server) handleNotFoundPage(c *gin.Context) {
	c.HTML(http.StatusOK, "not-found.html", nil)
}

// Reminder pages

func (s *Server) loadGrid(ctx context.Context, st *reminders.Storage) (*gridView, error) {
	lists, err := st.GetLists(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := st.GetSelectedList(ctx)
	if err != nil {
		return nil, err
	}
	return &gridView{Username: st.Owner(), Lists: lists, Selected: selected}, nil
}

func (s *Server) renderGrid(c *gin.Context, st *reminders.Storage) {
	view, err := s.loadGrid(c.Request.Context(), st)
	if err != nil {
		s.pageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "grid.html", view)
}

func (s *Server) handleReminders(c *gin.Context) {
	view, err := s.loadGrid(c.Request.Context(), s.storage(c))
	if err != nil {
		s.pageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "reminders.html", view)
}

func (s *Server) handleRemindersFrozen(c *gin.Context) {
	c.HTML(http.StatusOK, "reminders-frozen.html", gin.H{
		"Username": currentSession(c).Username,
	})
}

func (s *Server) handleGrid(c *gin.Context) {
	s.renderGrid(c, s.storage(c))
}

// handleFragment serves a partial that needs no data.
func (s *Server) handleFragment(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, nil)
	}
}

// List partials

func (s *Server) renderListRow(c *gin.Context, name string) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.pageError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	list, err := st.GetList(ctx, listID)
	if err != nil {
		s.pageError(c, err)
		return
	}
	selected, err := st.GetSelectedList(ctx)
	if err != nil {
		s.pageError(c, err)
		return
	}

	c.HTML(http.StatusOK, name, newListRow(*list, selected))
}

func (s *Server) handleListRow(c *gin.Context) {
	s.renderListRow(c, "list-row.html")
}

func (s *Server) handleListRowEdit(c *gin.Context) {
	s.renderListRow(c, "list-row-edit.html")
}

func (s *Server) handleDeleteListRow(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.pageError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if err := st.DeleteList(ctx, listID); err != nil {
		s.pageError(c, err)
		return
	}
	if err := st.ResetSelectedAfterDelete(ctx, listID); err != nil {
		s.pageError(c, err)
		return
	}
	s.renderGrid(c, st)
}

func (s *Server) handlePatchListRowName(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.pageError(c, err)
		return
	}
	name, err := formValue(c, "new_name")
	if err != nil {
		s.pageError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if err := st.UpdateListName(ctx, listID, name); err != nil {
		s.pageError(c, err)
		return
	}
	if err := st.SetSelectedList(ctx, &listID); err != nil {
		s.pageError(c, err)
		return
	}
	s.renderGrid(c, st)
}

func (s *Server) handleNewListRow(c *gin.Context) {
	name, err := formValue(c, "reminder_list_name")
	if err != nil {
		s.pageError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	listID, err := st.CreateList(ctx, name)
	if err != nil {
		s.pageError(c, err)
		return
	}
	if err := st.SetSelectedList(ctx, &listID); err != nil {
		s.pageError(c, err)
		return
	}
	s.renderGrid(c, st)
}

func (s *Server) handleSelectList(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.pageError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if _, err := st.GetList(ctx, listID); err != nil {
		s.pageError(c, err)
		return
	}
	if err := st.SetSelectedList(ctx, &listID); err != nil {
		s.pageError(c, err)
		return
	}
	s.renderGrid(c, st)
}

// Item partials

func (s *Server) renderItemRow(c *gin.Context, name string) {
	itemID, err := paramID(c, "item_id")
	if err != nil {
		s.pageError(c, err)
		return
	}

	item, err := s.storage(c).GetItem(c.Request.Context(), itemID)
	if err != nil {
		s.pageError(c, err)
		return
	}
	c.HTML(http.StatusOK, name, item)
}

func (s *Server) handleItemRow(c *gin.Context) {
	s.renderItemRow(c, "item-row.html")
}

func (s *Server) handleItemRowEdit(c *gin.Context) {
	s.renderItemRow(c, "item-row-edit.html")
}

// itemMutation runs fn against the item named in the path, then re-renders
// the grid.
func (s *Server) itemMutation(fn func(ctx context.Context, st *reminders.Storage, itemID int64) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := paramID(c, "item_id")
		if err != nil {
			s.pageError(c, err)
			return
		}

		st := s.storage(c)
		if err := fn(c.Request.Context(), st, itemID); err != nil {
			s.pageError(c, err)
			return
		}
		s.renderGrid(c, st)
	}
}

func (s *Server) handleDeleteItemRow(c *gin.Context) {
	s.itemMutation(func(ctx context.Context, st *reminders.Storage, itemID int64) error {
		return st.DeleteItem(ctx, itemID)
	})(c)
}

func (s *Server) handleStrikeItemRow(c *gin.Context) {
	s.itemMutation(func(ctx context.Context, st *reminders.Storage, itemID int64) error {
		return st.StrikeItem(ctx, itemID)
	})(c)
}

func (s *Server) handlePatchItemRowDescription(c *gin.Context) {
	description, err := formValue(c, "new_description")
	if err != nil {
		s.pageError(c, err)
		return
	}
	s.itemMutation(func(ctx context.Context, st *reminders.Storage, itemID int64) error {
		return st.UpdateItemDescription(ctx, itemID, description)
	})(c)
}

func (s *Server) handleNewItemRow(c *gin.Context) {
	description, err := formValue(c, "reminder_item_name")
	if err != nil {
		s.pageError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	listID, err := st.GetSelectedListID(ctx)
	if err != nil {
		s.pageError(c, err)
		return
	}
	if listID == nil {
		s.pageError(c, badRequest("no list selected"))
		return
	}

	if _, err := st.AddItem(ctx, *listID, description); err != nil {
		s.pageError(c, err)
		return
	}
	s.renderGrid(c, st)
}

// formValue reads a required, non-blank form field.
func formValue(c *gin.Context, name string) (string, error) {
	value, ok := c.GetPostForm(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", badRequest("missing form field %q", name)
	}
	return value, nil
}
