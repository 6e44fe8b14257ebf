package datasource

import (
	"context"
	"time"
)

// SourceStatus describes one data source for the status surface.
type SourceStatus struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	Description  string   `json:"description"`
	RecordCount  int      `json:"record_count,omitempty"`
	Capabilities []string `json:"capabilities"`
}

// Catalog reports the status of the external data collaborators. Search and
// trends are pass-through services with no local state, so their entries
// are static; the warehouse entry reflects the live record count when a
// warehouse is attached.
type Catalog struct {
	warehouse *Warehouse
}

// NewCatalog creates a catalog, optionally backed by a warehouse.
func NewCatalog(warehouse *Warehouse) *Catalog {
	return &Catalog{warehouse: warehouse}
}

// Snapshot returns the current status of every data source.
func (c *Catalog) Snapshot(ctx context.Context) ([]SourceStatus, time.Time) {
	warehouseStatus := SourceStatus{
		ID:           "warehouse",
		Name:         "Product Warehouse",
		Type:         "database",
		Status:       "offline",
		Description:  "Primary product database",
		Capabilities: []string{"SQL queries", "aggregation"},
	}
	if c.warehouse != nil {
		warehouseStatus.Status = "online"
		if count, err := c.warehouse.RecordCount(ctx); err == nil {
			warehouseStatus.RecordCount = count
		}
	}

	sources := []SourceStatus{
		warehouseStatus,
		{
			ID:           "search",
			Name:         "Search Grounding",
			Type:         "search",
			Status:       "online",
			Description:  "Web search augmentation service",
			Capabilities: []string{"web search", "citation generation"},
		},
		{
			ID:           "trends",
			Name:         "Trends",
			Type:         "trends",
			Status:       "online",
			Description:  "Search trend data source",
			Capabilities: []string{"trend analysis", "regional data", "related queries"},
		},
	}
	return sources, time.Now()
}
