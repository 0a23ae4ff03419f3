package handlers

import (
	"net/http"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/compare"
	"real-estate-investor/internal/report"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CompareHandler exposes comparison sessions
type CompareHandler struct {
	catalog catalog.Provider
	store   *compare.Store
	now     func() time.Time
}

// NewCompareHandler creates a compare handler
func NewCompareHandler(provider catalog.Provider, store *compare.Store) *CompareHandler {
	return &CompareHandler{
		catalog: provider,
		store:   store,
		now:     time.Now,
	}
}

// Register adds the routes. mutating runs before every handler that
// changes session state.
func (h *CompareHandler) Register(r gin.IRouter, mutating ...gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(mutating)+1)
		chain = append(chain, mutating...)
		return append(chain, fn)
	}

	r.POST("/compare", guarded(h.CreateSession)...)
	r.GET("/compare/:session", h.GetSession)
	r.DELETE("/compare/:session", guarded(h.DiscardSession)...)
	r.POST("/compare/:session/items", guarded(h.AddItem)...)
	r.DELETE("/compare/:session/items", guarded(h.ClearItems)...)
	r.GET("/compare/:session/items/:id", h.ContainsItem)
	r.DELETE("/compare/:session/items/:id", guarded(h.RemoveItem)...)
	r.GET("/compare/:session/report", h.GetReport)
}

// CreateSession starts an empty comparison set
func (h *CompareHandler) CreateSession(c *gin.Context) {
	sid := h.store.Create()
	result, err := h.store.Snapshot(sid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetSession returns the members of a comparison set
func (h *CompareHandler) GetSession(c *gin.Context) {
	result, err := h.store.Snapshot(c.Param("session"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DiscardSession ends a comparison session
func (h *CompareHandler) DiscardSession(c *gin.Context) {
	if err := h.store.Discard(c.Param("session")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addItemRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
}

// AddItem adds a catalog property to the set. Adding a present id or
// adding to a full set leaves it unchanged.
func (h *CompareHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid := c.Param("session")
	id := strings.TrimSpace(req.PropertyID)
	// unknown sessions fail before the catalog lookup
	if _, err := h.store.Contains(sid, id); err != nil {
		respondError(c, err)
		return
	}

	p, err := h.catalog.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.store.Add(sid, *p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ContainsItem reports whether a property is in the set
func (h *CompareHandler) ContainsItem(c *gin.Context) {
	id := c.Param("id")
	found, err := h.store.Contains(c.Param("session"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"property_id": id,
		"in_compare":  found,
	})
}

// RemoveItem removes a property from the set
func (h *CompareHandler) RemoveItem(c *gin.Context) {
	result, err := h.store.Remove(c.Param("session"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClearItems empties the set
func (h *CompareHandler) ClearItems(c *gin.Context) {
	result, err := h.store.Clear(c.Param("session"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetReport renders the side-by-side comparison of the set
func (h *CompareHandler) GetReport(c *gin.Context) {
	result, err := h.store.Snapshot(c.Param("session"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report.Build(result.Items, h.now()))
}
