package handlers

import (
	"net/http"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/compare"
	"real-estate-investor/internal/config"
	"real-estate-investor/internal/filter"
	"real-estate-investor/internal/markers"
	"real-estate-investor/internal/metrics"
	"real-estate-investor/internal/models"

	"github.com/gin-gonic/gin"
)

// HistoryReader serves stored snapshots of a property
type HistoryReader interface {
	GetPropertyHistory(propertyID string, limit int) ([]models.PropertySnapshot, error)
}

// PropertyView is a property with its derived metrics
type PropertyView struct {
	models.Property
	Metrics   metrics.Summary `json:"metrics"`
	InCompare *bool           `json:"in_compare,omitempty"`
}

func newPropertyView(p models.Property, members map[string]bool) PropertyView {
	v := PropertyView{Property: p, Metrics: metrics.Summarize(p)}
	if members != nil {
		in := members[p.ID]
		v.InCompare = &in
	}
	return v
}

// PropertyHandler serves the list, detail and map views
type PropertyHandler struct {
	catalog  catalog.Provider
	sessions *compare.Store
	history  HistoryReader
	mapCfg   config.MapConfig
}

// NewPropertyHandler creates a property handler. history may be nil.
func NewPropertyHandler(provider catalog.Provider, sessions *compare.Store, history HistoryReader, mapCfg config.MapConfig) *PropertyHandler {
	return &PropertyHandler{
		catalog:  provider,
		sessions: sessions,
		history:  history,
		mapCfg:   mapCfg,
	}
}

func (h *PropertyHandler) Register(r gin.IRouter) {
	r.GET("/properties", h.ListProperties)
	r.GET("/properties/:id", h.GetProperty)
	r.GET("/properties/:id/history", h.GetPropertyHistory)
	r.GET("/markers", h.GetMarkers)
	r.GET("/map/config", h.GetMapConfig)
}

// filtered loads the catalog and applies the query's filter criteria
func (h *PropertyHandler) filtered(c *gin.Context) ([]models.Property, error) {
	criteria, err := filter.FromValues(c.Request.URL.Query())
	if err != nil {
		return nil, err
	}
	props, err := h.catalog.ListProperties(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return filter.Apply(props, criteria), nil
}

// ListProperties returns the filtered catalog with metrics
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	props, err := h.filtered(c)
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := sessionMembers(c, h.sessions)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]PropertyView, 0, len(props))
	for _, p := range props {
		views = append(views, newPropertyView(p, members))
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": views,
		"count":      len(views),
	})
}

// GetProperty returns one property with metrics
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	p, err := h.catalog.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := sessionMembers(c, h.sessions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPropertyView(*p, members))
}

// GetPropertyHistory returns snapshot history for a property
func (h *PropertyHandler) GetPropertyHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "History not available (MySQL/GORM required)",
		})
		return
	}

	propertyID := c.Param("id")
	limit := queryInt(c, "limit", 30, 365)

	snapshots, err := h.history.GetPropertyHistory(propertyID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property_id": propertyID,
		"snapshots":   snapshots,
		"count":       len(snapshots),
	})
}

// GetMarkers returns map pins for the filtered catalog
func (h *PropertyHandler) GetMarkers(c *gin.Context) {
	props, err := h.filtered(c)
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := sessionMembers(c, h.sessions)
	if err != nil {
		respondError(c, err)
		return
	}

	var inCompare func(string) bool
	if members != nil {
		inCompare = func(id string) bool { return members[id] }
	}

	pins := markers.Build(props, inCompare)
	c.JSON(http.StatusOK, gin.H{
		"markers": pins,
		"count":   len(pins),
	})
}

// GetMapConfig returns the default map viewport
func (h *PropertyHandler) GetMapConfig(c *gin.Context) {
	c.JSON(http.StatusOK, markers.DefaultViewport(h.mapCfg))
}
