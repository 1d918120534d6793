// Package web serves the Bulldoggy pages, their htmx partials and the JSON API.
package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/bulldoggy/internal/auth"
	"github.com/eleven-am/bulldoggy/internal/logger"
	"github.com/eleven-am/bulldoggy/internal/reminders"
)

// Server is the Bulldoggy HTTP server
type Server struct {
	store    *reminders.Store
	resolver *auth.Resolver
	router   *gin.Engine
	log      logger.Logger
}

// NewServer wires the router. Both dependencies are shared by all requests.
func NewServer(store *reminders.Store, resolver *auth.Resolver) *Server {
	router := gin.New()

	s := &Server{
		store:    store,
		resolver: resolver,
		router:   router,
		log:      logger.HTTP(),
	}

	router.SetHTMLTemplate(pageTemplates)
	router.Use(gin.Recovery(), s.requestLogger())

	// Public pages
	router.GET("/", s.handleRoot)
	router.GET("/login", s.handleLoginPage)
	router.POST("/login", s.handleLogin)
	router.GET("/logout", s.handleLogout)
	router.POST("/logout", s.handleLogout)
	router.GET("/not-found", s.handleNotFoundPage)

	// Pages and partials
	pages := router.Group("/", s.requirePageSession())
	{
		pages.GET("/reminders", s.handleReminders)
		pages.GET("/reminders-frozen", s.handleRemindersFrozen)
		pages.GET("/reminders/grid", s.handleGrid)

		pages.GET("/reminders/list-row/:list_id", s.handleListRow)
		pages.DELETE("/reminders/list-row/:list_id", s.handleDeleteListRow)
		pages.PATCH("/reminders/list-row-name/:list_id", s.handlePatchListRowName)
		pages.GET("/reminders/list-row-edit/:list_id", s.handleListRowEdit)
		pages.GET("/reminders/new-list-row", s.handleFragment("new-list-row.html"))
		pages.GET("/reminders/new-list-row-edit", s.handleFragment("new-list-row-edit.html"))
		pages.POST("/reminders/new-list-row", s.handleNewListRow)
		pages.POST("/reminders/select/:list_id", s.handleSelectList)

		pages.GET("/reminders/item-row/:item_id", s.handleItemRow)
		pages.DELETE("/reminders/item-row/:item_id", s.handleDeleteItemRow)
		pages.PATCH("/reminders/item-row-description/:item_id", s.handlePatchItemRowDescription)
		pages.GET("/reminders/item-row-edit/:item_id", s.handleItemRowEdit)
		pages.PATCH("/reminders/item-row-strike/:item_id", s.handleStrikeItemRow)
		pages.GET("/reminders/new-item-row", s.handleFragment("new-item-row.html"))
		pages.GET("/reminders/new-item-row-edit", s.handleFragment("new-item-row-edit.html"))
		pages.POST("/reminders/new-item-row", s.handleNewItemRow)
	}

	// API routes
	api := router.Group("/api")
	api.POST("/login", s.handleAPILogin)

	authed := api.Group("", s.requireAPISession())
	{
		authed.GET("/reminders", s.handleAPIGetLists)
		authed.POST("/reminders", s.handleAPICreateList)
		authed.DELETE("/reminders", s.handleAPIDeleteLists)
		authed.GET("/reminders/:list_id", s.handleAPIGetList)
		authed.PATCH("/reminders/:list_id", s.handleAPIUpdateList)
		authed.DELETE("/reminders/:list_id", s.handleAPIDeleteList)
		authed.GET("/reminders/:list_id/items", s.handleAPIGetItems)
		authed.POST("/reminders/:list_id/items", s.handleAPIAddItem)

		authed.GET("/items/:item_id", s.handleAPIGetItem)
		authed.PATCH("/items/:item_id", s.handleAPIUpdateItem)
		authed.DELETE("/items/:item_id", s.handleAPIDeleteItem)
		authed.POST("/items/:item_id/strike", s.handleAPIStrikeItem)

		authed.GET("/selected", s.handleAPIGetSelected)
		authed.PUT("/selected", s.handleAPISetSelected)
	}

	router.NoRoute(s.handleNoRoute)

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleNoRoute(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
		return
	}
	c.Redirect(http.StatusFound, "/not-found")
}
