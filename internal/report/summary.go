package report

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Summary field names.
const (
	FieldRows            = "rows"
	FieldDataSize        = "dataSize"
	FieldIndexSize       = "indexSize"
	FieldUpdateTime      = "updateTime"
	FieldFeatureBits     = "featureBits"
	FieldFeatureBitsGaps = "featureBitsGaps"
)

// SummaryRow holds derived per-table statistics in the order they were
// gathered. Each field is written at most once.
type SummaryRow struct {
	DB     string
	Table  string
	fields *orderedmap.OrderedMap[string, string]
}

// NewSummaryRow creates an empty row for a table.
func NewSummaryRow(db, table string) *SummaryRow {
	return &SummaryRow{
		DB:     db,
		Table:  table,
		fields: orderedmap.NewOrderedMap[string, string](),
	}
}

// Set stores a field. Writing a field twice is an error.
func (r *SummaryRow) Set(field, value string) error {
	if _, exists := r.fields.Get(field); exists {
		return fmt.Errorf("summary field %q already set for %s.%s", field, r.DB, r.Table)
	}
	r.fields.Set(field, value)
	return nil
}

// Get returns a field value.
func (r *SummaryRow) Get(field string) (string, bool) {
	return r.fields.Get(field)
}

// Fields returns field names in insertion order.
func (r *SummaryRow) Fields() []string {
	return r.fields.Keys()
}

// Len returns the number of fields set.
func (r *SummaryRow) Len() int {
	return r.fields.Len()
}
