package search

import (
	"fmt"
	"real-estate-investor/internal/filter"
	"real-estate-investor/internal/metrics"
	"real-estate-investor/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// Document is the flattened record stored in the index. Derived figures are
// precomputed so they can be filtered and sorted on.
type Document struct {
	ID                 string   `json:"id"`
	Address            string   `json:"address"`
	Price              float64  `json:"price"`
	Beds               float64  `json:"beds"`
	Baths              float64  `json:"baths"`
	Sqft               int      `json:"sqft"`
	CapRate            float64  `json:"cap_rate"`
	CashOnCash         float64  `json:"cash_on_cash"`
	YearlyAppreciation float64  `json:"yearly_appreciation"`
	Tags               []string `json:"tags"`
	RentEstimate       float64  `json:"rent_estimate"`
	RepairsEstimate    float64  `json:"repairs_estimate"`
	PropertyType       string   `json:"property_type"`
	Zoning             string   `json:"zoning"`
	MonthlyCashFlow    float64  `json:"monthly_cash_flow"`
	GrossYield         float64  `json:"gross_yield"`
	TotalInvestment    float64  `json:"total_investment"`
	DownPaymentPercent float64  `json:"down_payment_percent"`
}

// NewDocument converts a property into its index representation.
func NewDocument(p models.Property) Document {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Document{
		ID:                 p.ID,
		Address:            p.Address,
		Price:              p.Price,
		Beds:               p.Beds,
		Baths:              p.Baths,
		Sqft:               p.Sqft,
		CapRate:            p.CapRate,
		CashOnCash:         p.CashOnCash,
		YearlyAppreciation: p.YearlyAppreciation,
		Tags:               tags,
		RentEstimate:       p.RentEstimate,
		RepairsEstimate:    p.RepairsEstimate,
		PropertyType:       string(p.PropertyType),
		Zoning:             p.Zoning,
		MonthlyCashFlow:    metrics.MonthlyCashFlow(p),
		GrossYield:         metrics.GrossYieldPercent(p),
		TotalInvestment:    metrics.TotalInvestment(p),
		DownPaymentPercent: metrics.DownPaymentPercent(p),
	}
}

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey, index string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	if index == "" {
		index = "properties"
	}

	return &SearchClient{
		client: client,
		index:  index,
	}
}

// Healthy reports whether the Meilisearch server answers.
func (s *SearchClient) Healthy() bool {
	return s.client.IsHealthy()
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	idx := s.client.Index(s.index)

	if _, err := idx.UpdateSearchableAttributes(&SearchableAttributes); err != nil {
		return fmt.Errorf("searchable attributes: %w", err)
	}
	if _, err := idx.UpdateFilterableAttributes(&FilterableAttributes); err != nil {
		return fmt.Errorf("filterable attributes: %w", err)
	}
	if _, err := idx.UpdateSortableAttributes(&SortableAttributes); err != nil {
		return fmt.Errorf("sortable attributes: %w", err)
	}

	return nil
}

// IndexProperties indexes multiple properties
func (s *SearchClient) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	docs := make([]Document, 0, len(properties))
	for _, p := range properties {
		docs = append(docs, NewDocument(p))
	}
	_, err := s.client.Index(s.index).AddDocuments(docs, "id")
	return err
}

// RemoveProperties drops documents by id
func (s *SearchClient) RemoveProperties(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).DeleteDocuments(ids)
	return err
}

// Reindex replaces the whole index content with properties
func (s *SearchClient) Reindex(properties []models.Property) error {
	if _, err := s.client.Index(s.index).DeleteAllDocuments(); err != nil {
		return err
	}
	return s.IndexProperties(properties)
}

// Result holds the ids of matching properties in ranking order.
type Result struct {
	IDs            []string `json:"ids"`
	TotalHits      int64    `json:"total_hits"`
	ProcessingTime int64    `json:"processing_time_ms"`
}

// Search runs c against the index. Only ids are retrieved; callers resolve
// them against the catalog.
func (s *SearchClient) Search(c filter.Criteria, limit, offset int64) (*Result, error) {
	if limit <= 0 {
		limit = 20
	}

	req := &meilisearch.SearchRequest{
		Limit:                limit,
		Offset:               offset,
		AttributesToRetrieve: []string{"id"},
	}
	if f := BuildFilter(c); f != "" {
		req.Filter = f
	}
	if sort := BuildSort(c.Sort); len(sort) > 0 {
		req.Sort = sort
	}

	res, err := s.client.Index(s.index).Search(c.Query, req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if id := hitID(hit); id != "" {
			ids = append(ids, id)
		}
	}

	return &Result{
		IDs:            ids,
		TotalHits:      res.EstimatedTotalHits,
		ProcessingTime: res.ProcessingTimeMs,
	}, nil
}

func hitID(hit interface{}) string {
	m, ok := hit.(map[string]interface{})
	if !ok {
		return ""
	}
	if id, ok := m["id"].(string); ok {
		return id
	}
	return ""
}
