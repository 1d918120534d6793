package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type listRequest struct {
	Name string `json:"name" binding:"required"`
}

type itemRequest struct {
	Description string `json:"description" binding:"required"`
}

type selectRequest struct {
	ListID *int64 `json:"list_id"`
}

func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// handleAPILogin exchanges HTTP Basic credentials for a session cookie.
func (s *Server) handleAPILogin(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		s.unauthorized(c)
		return
	}

	session, err := s.resolver.Login(username, password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	http.SetCookie(c.Writer, s.resolver.Cookie(session))
	c.JSON(http.StatusOK, gin.H{
		"username": session.Username,
		"token":    session.Token,
	})
}

// Lists

func (s *Server) handleAPIGetLists(c *gin.Context) {
	lists, err := s.storage(c).GetLists(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

func (s *Server) handleAPICreateList(c *gin.Context) {
	var req listRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	listID, err := st.CreateList(ctx, req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	list, err := st.GetList(ctx, listID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (s *Server) handleAPIDeleteLists(c *gin.Context) {
	ctx := c.Request.Context()
	st := s.storage(c)
	if err := st.DeleteLists(ctx); err != nil {
		s.respondError(c, err)
		return
	}
	if err := st.SetSelectedList(ctx, nil); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAPIGetList(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.respondError(c, err)
		return
	}

	list, err := s.storage(c).GetList(c.Request.Context(), listID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleAPIUpdateList(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req listRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if err := st.UpdateListName(ctx, listID, req.Name); err != nil {
		s.respondError(c, err)
		return
	}
	list, err := st.GetList(ctx, listID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleAPIDeleteList(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if err := st.DeleteList(ctx, listID); err != nil {
		s.respondError(c, err)
		return
	}
	if err := st.ResetSelectedAfterDelete(ctx, listID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Items

func (s *Server) handleAPIGetItems(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.respondError(c, err)
		return
	}

	items, err := s.storage(c).GetItems(c.Request.Context(), listID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleAPIAddItem(c *gin.Context) {
	listID, err := paramID(c, "list_id")
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req itemRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	itemID, err := st.AddItem(ctx, listID, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	item, err := st.GetItem(ctx, itemID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleAPIGetItem(c *gin.Context) {
	itemID, err := paramID(c, "item_id")
	if err != nil {
		s.respondError(c, err)
		return
	}

	item, err := s.storage(c).GetItem(c.Request.Context(), itemID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleAPIUpdateItem(c *gin.Context) {
	itemID, err := paramID(c, "item_id")
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req itemRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if err := st.UpdateItemDescription(ctx, itemID, req.Description); err != nil {
		s.respondError(c, err)
		return
	}
	item, err := st.GetItem(ctx, itemID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleAPIStrikeItem(c *gin.Context) {
	itemID, err := paramID(c, "item_id")
	if err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if err := st.StrikeItem(ctx, itemID); err != nil {
		s.respondError(c, err)
		return
	}
	item, err := st.GetItem(ctx, itemID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleAPIDeleteItem(c *gin.Context) {
	itemID, err := paramID(c, "item_id")
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.storage(c).DeleteItem(c.Request.Context(), itemID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Selection

func (s *Server) handleAPIGetSelected(c *gin.Context) {
	selected, err := s.storage(c).GetSelectedList(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selected)
}

// handleAPISetSelected only accepts lists the caller owns; null clears.
func (s *Server) handleAPISetSelected(c *gin.Context) {
	var req selectRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	st := s.storage(c)
	if req.ListID != nil {
		if _, err := st.GetList(ctx, *req.ListID); err != nil {
			s.respondError(c, err)
			return
		}
	}
	if err := st.SetSelectedList(ctx, req.ListID); err != nil {
		s.respondError(c, err)
		return
	}

	selected, err := st.GetSelectedList(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selected)
}
