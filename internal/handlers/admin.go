package handlers

import (
	"context"
	"net/http"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/cleanup"
	"real-estate-investor/internal/compare"
	"real-estate-investor/internal/config"
	"real-estate-investor/internal/models"
	"real-estate-investor/internal/scheduler"
	"real-estate-investor/internal/snapshot"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogCounter is implemented by stores that can count by status
type CatalogCounter interface {
	CountByStatus(ctx context.Context) (active, removed int64, err error)
}

// Reindexer rebuilds the search index
type Reindexer interface {
	Reindex(properties []models.Property) error
}

// AdminOptions wires the optional admin collaborators. Nil fields make the
// matching endpoints answer 503.
type AdminOptions struct {
	Scheduler *scheduler.Scheduler
	Snapshots *snapshot.Service
	Cleanup   *cleanup.Service
	Indexer   Reindexer
	Sessions  *compare.Store
	Retention config.CleanupConfig
	Logger    *zap.Logger
}

// AdminHandler handles admin-related requests
type AdminHandler struct {
	catalog         catalog.Provider
	scheduler       *scheduler.Scheduler
	snapshotService *snapshot.Service
	cleanupService  *cleanup.Service
	indexer         Reindexer
	sessions        *compare.Store
	retention       cleanup.CleanupConfig
	logger          *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(provider catalog.Provider, opts AdminOptions) *AdminHandler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	retention := cleanup.CleanupConfig{
		RetentionDays:    opts.Retention.RetentionDays,
		MaxDeletionCount: opts.Retention.MaxDeletionCount,
	}
	return &AdminHandler{
		catalog:         provider,
		scheduler:       opts.Scheduler,
		snapshotService: opts.Snapshots,
		cleanupService:  opts.Cleanup,
		indexer:         opts.Indexer,
		sessions:        opts.Sessions,
		retention:       retention.Normalize(),
		logger:          logger.Named("admin"),
	}
}

func (h *AdminHandler) Register(r gin.IRouter) {
	admin := r.Group("/admin")
	{
		// Statistics
		admin.GET("/stats", h.GetStats)
		admin.GET("/price-distribution", h.GetPriceDistribution)
		admin.GET("/tag-stats", h.GetTagStats)

		// Catalog editing
		admin.PUT("/properties/:id", h.SaveProperty)
		admin.DELETE("/properties/:id", h.RemoveProperty)

		// Catalog refresh
		admin.POST("/catalog/refresh", h.TriggerRefresh)
		admin.GET("/scheduler/status", h.GetSchedulerStatus)
		admin.POST("/search/reindex", h.Reindex)

		// Cleanup operations
		admin.POST("/cleanup/run", h.RunCleanup)
		admin.GET("/cleanup/logs", h.GetDeleteLogs)

		// Property history
		admin.GET("/changes/recent", h.GetRecentChanges)
	}
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": what + " not available",
	})
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	stats := make(map[string]interface{})

	if counter, ok := h.catalog.(CatalogCounter); ok {
		active, removed, err := counter.CountByStatus(ctx)
		if err != nil {
			h.logger.Warn("failed to count properties", zap.Error(err))
		} else {
			stats["properties"] = map[string]interface{}{
				"active":  active,
				"removed": removed,
				"total":   active + removed,
			}
		}
	} else if props, err := h.catalog.ListProperties(ctx); err == nil {
		stats["properties"] = map[string]interface{}{
			"active": len(props),
		}
	}

	if h.sessions != nil {
		stats["compare_sessions"] = h.sessions.Len()
	}

	if h.snapshotService != nil {
		snapshots, changes, err := h.snapshotService.Stats(time.Now().AddDate(0, 0, -7))
		if err != nil {
			h.logger.Warn("failed to get snapshot stats", zap.Error(err))
		} else {
			stats["snapshots"] = map[string]interface{}{"total": snapshots}
			stats["changes"] = map[string]interface{}{"last_7_days": changes}
		}
	}

	if h.cleanupService != nil {
		deleteStats, err := h.cleanupService.GetDeleteStats(h.retention.RetentionDays)
		if err != nil {
			h.logger.Warn("failed to get delete stats", zap.Error(err))
		} else {
			stats["deletions"] = deleteStats
		}
	}

	if h.scheduler != nil {
		stats["scheduler"] = h.scheduler.Status()
	}

	c.JSON(http.StatusOK, stats)
}

// PriceRange is one bucket of the price distribution
type PriceRange struct {
	RangeLabel string  `json:"range_label"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	Count      int64   `json:"count"`
}

// PriceDistribution buckets properties by list price. MaxPrice is exclusive.
func PriceDistribution(props []models.Property) []PriceRange {
	ranges := []PriceRange{
		{RangeLabel: "Under $300K", MinPrice: 0, MaxPrice: 300000},
		{RangeLabel: "$300K-$500K", MinPrice: 300000, MaxPrice: 500000},
		{RangeLabel: "$500K-$750K", MinPrice: 500000, MaxPrice: 750000},
		{RangeLabel: "$750K-$1M", MinPrice: 750000, MaxPrice: 1000000},
		{RangeLabel: "$1M+", MinPrice: 1000000, MaxPrice: 0},
	}
	for _, p := range props {
		for i := range ranges {
			if p.Price >= ranges[i].MinPrice && (ranges[i].MaxPrice == 0 || p.Price < ranges[i].MaxPrice) {
				ranges[i].Count++
				break
			}
		}
	}
	return ranges
}

// GetPriceDistribution returns the price distribution of active properties
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	props, err := h.catalog.ListProperties(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"price_distribution": PriceDistribution(props),
	})
}

// TagStat counts active properties carrying a tag
type TagStat struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TagStats counts tags, most frequent first, ties in first-seen order
func TagStats(props []models.Property) []TagStat {
	index := make(map[string]int)
	stats := []TagStat{}
	for _, p := range props {
		for _, tag := range p.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(stats)
				index[tag] = i
				stats = append(stats, TagStat{Tag: tag})
			}
			stats[i].Count++
		}
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats
}

// GetTagStats returns tag frequencies across active properties
func (h *AdminHandler) GetTagStats(c *gin.Context) {
	props, err := h.catalog.ListProperties(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	stats := TagStats(props)
	c.JSON(http.StatusOK, gin.H{
		"tag_stats": stats,
		"count":     len(stats),
	})
}

// TriggerRefresh reloads the catalog. With ?wait=true the request blocks
// until the refresh finishes.
func (h *AdminHandler) TriggerRefresh(c *gin.Context) {
	if h.scheduler == nil {
		unavailable(c, "Scheduler")
		return
	}

	if c.Query("wait") == "true" {
		result, err := h.scheduler.RunNow(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	if h.scheduler.Status().Running {
		respondError(c, scheduler.ErrAlreadyRunning)
		return
	}

	h.logger.Info("manual catalog refresh requested")

	// Run in goroutine to avoid blocking
	go func() {
		if _, err := h.scheduler.RunNow(context.Background()); err != nil {
			h.logger.Error("manual catalog refresh failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Catalog refresh started",
		"status":  "running",
	})
}

// SaveProperty creates or replaces one listing
func (h *AdminHandler) SaveProperty(c *gin.Context) {
	editor, ok := h.catalog.(catalog.Editor)
	if !ok {
		unavailable(c, "Catalog editing")
		return
	}

	var p models.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if p.ID != "" && p.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id does not match the path"})
		return
	}
	p.ID = id

	ctx := c.Request.Context()
	if err := editor.SaveProperty(ctx, &p); err != nil {
		respondError(c, err)
		return
	}

	saved, err := h.catalog.GetProperty(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.snapshotService != nil {
		if err := h.snapshotService.CreateSnapshotWithChangeDetection(saved); err != nil {
			h.logger.Warn("snapshot failed", zap.String("property_id", id), zap.Error(err))
		}
	}
	h.refreshIndex(ctx)

	h.logger.Info("property saved", zap.String("property_id", id))
	c.JSON(http.StatusOK, saved)
}

// RemoveProperty takes a listing off the catalog. The record is kept as
// removed until cleanup purges it.
func (h *AdminHandler) RemoveProperty(c *gin.Context) {
	editor, ok := h.catalog.(catalog.Editor)
	if !ok {
		unavailable(c, "Catalog editing")
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.catalog.GetProperty(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	if err := editor.MarkPropertiesAsRemoved(ctx, []string{id}); err != nil {
		respondError(c, err)
		return
	}

	if h.snapshotService != nil {
		if err := h.snapshotService.RecordRemovals([]string{id}); err != nil {
			h.logger.Warn("failed to record removal", zap.String("property_id", id), zap.Error(err))
		}
	}
	h.refreshIndex(ctx)

	h.logger.Info("property removed", zap.String("property_id", id))
	c.JSON(http.StatusOK, gin.H{
		"message":     "Property removed",
		"property_id": id,
	})
}

// refreshIndex rebuilds the search index after an edit
func (h *AdminHandler) refreshIndex(ctx context.Context) {
	if h.indexer == nil {
		return
	}
	props, err := h.catalog.ListProperties(ctx)
	if err == nil {
		err = h.indexer.Reindex(props)
	}
	if err != nil {
		h.logger.Warn("search index refresh failed", zap.Error(err))
	}
}

// GetSchedulerStatus returns the refresh job state
func (h *AdminHandler) GetSchedulerStatus(c *gin.Context) {
	if h.scheduler == nil {
		unavailable(c, "Scheduler")
		return
	}
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// Reindex rebuilds the search index from the active catalog
func (h *AdminHandler) Reindex(c *gin.Context) {
	if h.indexer == nil {
		unavailable(c, "Search index")
		return
	}
	props, err := h.catalog.ListProperties(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.indexer.Reindex(props); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Reindex completed",
		"indexed": len(props),
	})
}

// RunCleanup executes physical deletion of old removed properties
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	if h.cleanupService == nil {
		unavailable(c, "Cleanup (MySQL/GORM required)")
		return
	}

	// Dry run unless the body says otherwise
	req := cleanup.CleanupConfig{DryRun: true, PruneHistory: true}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cfg := h.retention
	if req.RetentionDays > 0 {
		cfg.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = req.MaxDeletionCount
	}
	cfg.DryRun = req.DryRun
	cfg.PruneHistory = req.PruneHistory

	result, err := h.cleanupService.PhysicallyDelete(cfg)
	if err != nil {
		h.logger.Error("cleanup failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	if h.cleanupService == nil {
		unavailable(c, "Cleanup (MySQL/GORM required)")
		return
	}
	logs, err := h.cleanupService.GetRecentDeleteLogs(queryInt(c, "limit", 100, 1000))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetRecentChanges returns recent property changes
func (h *AdminHandler) GetRecentChanges(c *gin.Context) {
	if h.snapshotService == nil {
		unavailable(c, "History (MySQL/GORM required)")
		return
	}
	changes, err := h.snapshotService.GetRecentChanges(queryInt(c, "limit", 100, 1000))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": changes,
		"count":   len(changes),
	})
}
