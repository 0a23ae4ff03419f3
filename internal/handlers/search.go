package handlers

import (
	"net/http"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/filter"
	"real-estate-investor/internal/models"
	"real-estate-investor/internal/search"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Searcher runs criteria against a search index and returns ranked ids
type Searcher interface {
	Search(c filter.Criteria, limit, offset int64) (*search.Result, error)
}

// SearchHandler serves full-text search. Without a Searcher, or when the
// index fails, it falls back to filtering the catalog in memory.
type SearchHandler struct {
	catalog  catalog.Provider
	searcher Searcher
	logger   *zap.Logger
}

// NewSearchHandler creates a search handler. searcher may be nil.
func NewSearchHandler(provider catalog.Provider, searcher Searcher, logger *zap.Logger) *SearchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchHandler{
		catalog:  provider,
		searcher: searcher,
		logger:   logger,
	}
}

func (h *SearchHandler) Register(r gin.IRouter) {
	r.GET("/search", h.SearchProperties)
	r.POST("/search/advanced", h.AdvancedSearch)
}

// SearchProperties handles GET /search with the list filter parameters
func (h *SearchHandler) SearchProperties(c *gin.Context) {
	criteria, err := filter.FromValues(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	limit := queryInt(c, "limit", defaultSearchLimit, maxSearchLimit)
	offset := queryInt(c, "offset", 0, 0)
	h.respond(c, criteria, limit, offset)
}

// AdvancedSearchRequest is the body of POST /search/advanced
type AdvancedSearchRequest struct {
	Query              string   `json:"query"`
	MinPrice           *float64 `json:"min_price"`
	MaxPrice           *float64 `json:"max_price"`
	MinBeds            *float64 `json:"min_beds"`
	MinBaths           *float64 `json:"min_baths"`
	Tags               []string `json:"tags"`
	Strategy           string   `json:"strategy"`
	MinCapRate         *float64 `json:"min_cap_rate"`
	MinCashOnCash      *float64 `json:"min_cash_on_cash"`
	MinAppreciation    *float64 `json:"min_appreciation"`
	InvestableCash     *float64 `json:"investable_cash"`
	DownPaymentPercent *float64 `json:"down_payment_percent"`
	Sort               string   `json:"sort"`
	Limit              int      `json:"limit"`
	Offset             int      `json:"offset"`
}

// Criteria validates the request and converts it to filter criteria
func (r AdvancedSearchRequest) Criteria() (filter.Criteria, error) {
	c := filter.Criteria{
		Query:              strings.TrimSpace(r.Query),
		MinPrice:           r.MinPrice,
		MaxPrice:           r.MaxPrice,
		MinBeds:            r.MinBeds,
		MinBaths:           r.MinBaths,
		Tags:               r.Tags,
		MinCapRate:         r.MinCapRate,
		MinCashOnCash:      r.MinCashOnCash,
		MinAppreciation:    r.MinAppreciation,
		InvestableCash:     r.InvestableCash,
		DownPaymentPercent: r.DownPaymentPercent,
	}
	if err := c.Validate(); err != nil {
		return filter.Criteria{}, err
	}

	var err error
	if c.Strategy, err = filter.ParseStrategy(r.Strategy); err != nil {
		return filter.Criteria{}, err
	}
	if c.Sort, err = filter.ParseSort(r.Sort); err != nil {
		return filter.Criteria{}, err
	}
	return c, nil
}

// AdvancedSearch handles POST /search/advanced
func (h *SearchHandler) AdvancedSearch(c *gin.Context) {
	var req AdvancedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	criteria, err := req.Criteria()
	if err != nil {
		respondError(c, err)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	h.respond(c, criteria, limit, offset)
}

func (h *SearchHandler) respond(c *gin.Context, criteria filter.Criteria, limit, offset int) {
	props, err := h.catalog.ListProperties(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	source := "catalog"
	var (
		hits  []models.Property
		total int64
	)

	if h.searcher != nil {
		res, err := h.searcher.Search(criteria, int64(limit), int64(offset))
		if err != nil {
			h.logger.Warn("search index failed, filtering catalog", zap.Error(err))
		} else {
			source = "meilisearch"
			hits = resolve(props, res.IDs)
			total = res.TotalHits
		}
	}

	if source == "catalog" {
		matched := filter.Apply(props, criteria)
		total = int64(len(matched))
		hits = page(matched, limit, offset)
	}

	views := make([]PropertyView, 0, len(hits))
	for _, p := range hits {
		views = append(views, newPropertyView(p, nil))
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": views,
		"count":      len(views),
		"total_hits": total,
		"source":     source,
	})
}

// resolve maps ranked ids to catalog records, skipping ids the catalog no
// longer has
func resolve(props []models.Property, ids []string) []models.Property {
	byID := make(map[string]models.Property, len(props))
	for _, p := range props {
		byID[p.ID] = p
	}
	out := make([]models.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func page(props []models.Property, limit, offset int) []models.Property {
	if offset >= len(props) {
		return []models.Property{}
	}
	end := offset + limit
	if end > len(props) {
		end = len(props)
	}
	return props[offset:end]
}
