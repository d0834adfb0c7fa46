package normalize

import (
	"fmt"
	"strings"

	"storereport/pkg/contracts/domain"
)

// Marker maps a header substring to a canonical field
type Marker struct {
	Substring string
	Field     string
}

// DefaultMarkers is the ordered header marker list of the POS shift export.
var DefaultMarkers = []Marker{
	{Substring: "店別", Field: domain.FieldRegion},
	{Substring: "班別營業|店名", Field: domain.FieldStore},
	{Substring: "班別營業|班別", Field: domain.FieldShift},
	{Substring: "班別營業|日期", Field: domain.FieldDate},
	{Substring: "班別營業|值班者", Field: domain.FieldAttendant},
	{Substring: "檳榔銷售|金額", Field: domain.FieldSalesItem},
	{Substring: "營業金額|實收金額", Field: domain.FieldCollected},
	{Substring: "營業金額|結帳差額", Field: domain.FieldVariance},
}

// ColumnMap holds the source column index chosen for each matched field
type ColumnMap struct {
	index  map[string]int
	fields []string
}

// Index returns the source column of field
func (m ColumnMap) Index(field string) (int, bool) {
	i, ok := m.index[field]
	return i, ok
}

// Fields lists matched canonical fields in marker order
func (m ColumnMap) Fields() []string {
	out := make([]string, len(m.fields))
	copy(out, m.fields)
	return out
}

// Len is the number of matched fields
func (m ColumnMap) Len() int {
	return len(m.fields)
}

// MatchColumns picks, for every marker in order, the first header containing
// its substring. A column already taken by an earlier marker is skipped.
// When further columns also match, the first one is kept and a warning is
// returned for each extra candidate.
func MatchColumns(header []string, markers []Marker) (ColumnMap, []string) {
	m := ColumnMap{index: make(map[string]int, len(markers))}
	claimed := make(map[int]bool, len(markers))
	var warnings []string

	for _, marker := range markers {
		if _, done := m.index[marker.Field]; done {
			continue
		}

		chosen := -1
		for i, h := range header {
			if claimed[i] || !strings.Contains(h, marker.Substring) {
				continue
			}
			if chosen < 0 {
				chosen = i
				continue
			}
			warnings = append(warnings, fmt.Sprintf(
				"欄位「%s」有多個來源欄位符合（%q、%q），採用第一個 %q",
				marker.Field, header[chosen], h, header[chosen]))
		}

		if chosen >= 0 {
			m.index[marker.Field] = chosen
			m.fields = append(m.fields, marker.Field)
			claimed[chosen] = true
		}
	}

	return m, warnings
}
