package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Region is one of the two fixed geographic groupings a store is reported under.
type Region string

const (
	// RegionChanghua is the primary region. Sub-brand stores are folded into it.
	RegionChanghua Region = "彰化"
	// RegionTaichung is the secondary region.
	RegionTaichung Region = "台中"
)

// SubBrandMarker identifies the sub-brand stores folded into RegionChanghua and listed last.
const SubBrandMarker = "日紅"

// Canonical field names produced by column matching.
const (
	FieldRegion    = "區域"
	FieldStore     = "店名"
	FieldShift     = "班別"
	FieldDate      = "日期"
	FieldAttendant = "值班者"
	FieldSalesItem = "檳榔"
	FieldCollected = "實收"
	FieldVariance  = "帳差"
)

// ShiftRecord is one store's one shift on one day after normalization.
// Variance is stored negated relative to the POS export.
type ShiftRecord struct {
	Region    Region          `json:"region" validate:"required"`
	Store     string          `json:"store" validate:"required"`
	Shift     string          `json:"shift"`
	Attendant string          `json:"attendant"`
	Date      time.Time       `json:"date"`
	SalesItem decimal.Decimal `json:"sales_item"`
	Collected decimal.Decimal `json:"collected"`
	Variance  decimal.Decimal `json:"variance"`
	// SubBrand is set when the raw region label carried SubBrandMarker.
	SubBrand bool `json:"sub_brand,omitempty"`
}

// IsSubBrand reports whether the record belongs to a sub-brand store.
func (r ShiftRecord) IsSubBrand() bool {
	return r.SubBrand || strings.Contains(r.Store, SubBrandMarker)
}

// CanonicalTable is the normalized record set of a single upload.
type CanonicalTable struct {
	Records    []ShiftRecord `json:"records" validate:"dive"`
	Fields     []string      `json:"fields"`
	Warnings   []string      `json:"warnings,omitempty"`
	SourceRows int           `json:"source_rows"`
}

// Empty reports whether no usable rows survived cleaning.
func (t *CanonicalTable) Empty() bool {
	return t == nil || len(t.Records) == 0
}

// HasField reports whether the canonical field was matched in the source header.
func (t *CanonicalTable) HasField(name string) bool {
	for _, f := range t.Fields {
		if f == name {
			return true
		}
	}
	return false
}
