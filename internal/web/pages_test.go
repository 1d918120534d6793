package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) page(t *testing.T, cookie *http.Cookie, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(cookie)
	return ts.do(req)
}

func TestRemindersPage(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	cookie := ts.sessionCookie(t, "pythonista")

	st := ts.store.For("pythonista")
	listID, err := st.CreateList(ctx, "Chores")
	require.NoError(t, err)
	_, err = st.AddItem(ctx, listID, "Mow the lawn")
	require.NoError(t, err)
	require.NoError(t, st.SetSelectedList(ctx, &listID))

	w := ts.page(t, cookie, http.MethodGet, "/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "pythonista")
	assert.Contains(t, body, "Chores")
	assert.Contains(t, body, "Mow the lawn")
	assert.Contains(t, body, `id="reminders-grid"`)

	w = ts.page(t, cookie, http.MethodGet, "/reminders-frozen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hx-get="/reminders/grid"`)
	assert.NotContains(t, w.Body.String(), "Mow the lawn")

	w = ts.page(t, cookie, http.MethodGet, "/reminders/grid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mow the lawn")
	assert.NotContains(t, w.Body.String(), "<html")
}

func TestListPartials(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	cookie := ts.sessionCookie(t, "pythonista")
	st := ts.store.For("pythonista")

	t.Run("new list becomes selected", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodPost, "/reminders/new-list-row", url.Values{"reminder_list_name": {"Groceries"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Groceries")

		selected, err := st.GetSelectedList(ctx)
		require.NoError(t, err)
		require.NotNil(t, selected)
		assert.Equal(t, "Groceries", selected.Name)
	})

	lists, err := st.GetLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	listID := lists[0].ID
	idPath := strconv.FormatInt(listID, 10)

	t.Run("rows", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodGet, "/reminders/list-row/"+idPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "list-row selected")

		w = ts.page(t, cookie, http.MethodGet, "/reminders/list-row-edit/"+idPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="new_name"`)
		assert.Contains(t, w.Body.String(), `value="Groceries"`)

		w = ts.page(t, cookie, http.MethodGet, "/reminders/new-list-row-edit", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="reminder_list_name"`)
	})

	t.Run("rename", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodPatch, "/reminders/list-row-name/"+idPath, url.Values{"new_name": {"Shopping"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Shopping")

		list, err := st.GetList(ctx, listID)
		require.NoError(t, err)
		assert.Equal(t, "Shopping", list.Name)
	})

	t.Run("rename without a name", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodPatch, "/reminders/list-row-name/"+idPath, url.Values{"new_name": {"  "}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("select", func(t *testing.T) {
		other, err := st.CreateList(ctx, "Other")
		require.NoError(t, err)

		w := ts.page(t, cookie, http.MethodPost, "/reminders/select/"+strconv.FormatInt(other, 10), nil)
		require.Equal(t, http.StatusOK, w.Code)

		id, err := st.GetSelectedListID(ctx)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, other, *id)
	})

	t.Run("delete resets selection", func(t *testing.T) {
		id, err := st.GetSelectedListID(ctx)
		require.NoError(t, err)
		require.NotNil(t, id)

		w := ts.page(t, cookie, http.MethodDelete, "/reminders/list-row/"+strconv.FormatInt(*id, 10), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Other")

		now, err := st.GetSelectedListID(ctx)
		require.NoError(t, err)
		require.NotNil(t, now)
		assert.Equal(t, listID, *now)
	})

	t.Run("errors", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodGet, "/reminders/list-row/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ts.page(t, cookie, http.MethodGet, "/reminders/list-row/9999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		engineer := ts.sessionCookie(t, "engineer")
		w = ts.page(t, engineer, http.MethodGet, "/reminders/list-row/"+idPath, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		w = ts.page(t, engineer, http.MethodDelete, "/reminders/list-row/"+idPath, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		w = ts.page(t, engineer, http.MethodPost, "/reminders/select/"+idPath, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		_, err := st.GetList(ctx, listID)
		assert.NoError(t, err)
	})
}

func TestItemPartials(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	cookie := ts.sessionCookie(t, "pythonista")
	st := ts.store.For("pythonista")

	t.Run("new item without a selection", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodPost, "/reminders/new-item-row", url.Values{"reminder_item_name": {"Orphan"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	listID, err := st.CreateList(ctx, "Chores")
	require.NoError(t, err)
	require.NoError(t, st.SetSelectedList(ctx, &listID))

	w := ts.page(t, cookie, http.MethodPost, "/reminders/new-item-row", url.Values{"reminder_item_name": {"Buy groceries"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Buy groceries")

	items, err := st.GetItems(ctx, listID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	itemPath := strconv.FormatInt(items[0].ID, 10)

	t.Run("rows", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodGet, "/reminders/item-row/"+itemPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Buy groceries")

		w = ts.page(t, cookie, http.MethodGet, "/reminders/item-row-edit/"+itemPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="new_description"`)

		w = ts.page(t, cookie, http.MethodGet, "/reminders/new-item-row", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/reminders/new-item-row-edit")
	})

	t.Run("strike", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodPatch, "/reminders/item-row-strike/"+itemPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "item-row completed")

		item, err := st.GetItem(ctx, items[0].ID)
		require.NoError(t, err)
		assert.True(t, item.Completed)
	})

	t.Run("describe", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodPatch, "/reminders/item-row-description/"+itemPath, url.Values{"new_description": {"Buy milk"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Buy milk")
	})

	t.Run("other user", func(t *testing.T) {
		engineer := ts.sessionCookie(t, "engineer")
		w := ts.page(t, engineer, http.MethodPatch, "/reminders/item-row-strike/"+itemPath, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := ts.page(t, cookie, http.MethodDelete, "/reminders/item-row/"+itemPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Buy milk")

		w = ts.page(t, cookie, http.MethodGet, "/reminders/item-row/"+itemPath, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
