package report

import (
	"github.com/shopspring/decimal"

	"storereport/pkg/contracts/domain"
)

// StoreBlock is one store's shifts as rendered in a contiguous block
type StoreBlock struct {
	Name      string
	Records   []domain.ShiftRecord
	Collected decimal.Decimal
	SubBrand  bool
}

// StoreOrder returns the distinct store names of region in first-appearance
// order. In the Changhua region, sub-brand stores are moved after the others
// with their relative order kept.
func StoreOrder(records []domain.ShiftRecord, region domain.Region) []string {
	blocks := GroupStores(records, region)
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.Name
	}
	return names
}

// GroupStores partitions the records of region into store blocks, ordered as
// StoreOrder describes
func GroupStores(records []domain.ShiftRecord, region domain.Region) []StoreBlock {
	index := make(map[string]int)
	var blocks []StoreBlock

	for _, rec := range records {
		if rec.Region != region {
			continue
		}
		i, ok := index[rec.Store]
		if !ok {
			i = len(blocks)
			index[rec.Store] = i
			blocks = append(blocks, StoreBlock{Name: rec.Store, Collected: decimal.Zero})
		}
		b := &blocks[i]
		b.Records = append(b.Records, rec)
		b.Collected = b.Collected.Add(rec.Collected)
		b.SubBrand = b.SubBrand || rec.IsSubBrand()
	}

	if region != domain.RegionChanghua {
		return blocks
	}

	ordered := make([]StoreBlock, 0, len(blocks))
	for _, b := range blocks {
		if !b.SubBrand {
			ordered = append(ordered, b)
		}
	}
	for _, b := range blocks {
		if b.SubBrand {
			ordered = append(ordered, b)
		}
	}
	return ordered
}

// RegionTotals sums the records of one region
func RegionTotals(records []domain.ShiftRecord, region domain.Region) domain.RegionTotals {
	t := domain.RegionTotals{
		Region:    region,
		SalesItem: decimal.Zero,
		Collected: decimal.Zero,
		Variance:  decimal.Zero,
	}
	stores := make(map[string]struct{})
	for _, rec := range records {
		if rec.Region != region {
			continue
		}
		stores[rec.Store] = struct{}{}
		t.Shifts++
		t.SalesItem = t.SalesItem.Add(rec.SalesItem)
		t.Collected = t.Collected.Add(rec.Collected)
		t.Variance = t.Variance.Add(rec.Variance)
	}
	t.Stores = len(stores)
	return t
}

// ComputeTotals derives every figure of the summary rows and the carry-forward
// panel. Collected and variance grand totals run over all records; the
// sales-item grand total is the sum of the two regions.
func ComputeTotals(records []domain.ShiftRecord, prior domain.CumulativeSnapshot) domain.ReportTotals {
	ch := RegionTotals(records, domain.RegionChanghua)
	tc := RegionTotals(records, domain.RegionTaichung)

	collected, variance := decimal.Zero, decimal.Zero
	for _, rec := range records {
		collected = collected.Add(rec.Collected)
		variance = variance.Add(rec.Variance)
	}

	return domain.ReportTotals{
		Changhua:               ch,
		Taichung:               tc,
		SalesItem:              ch.SalesItem.Add(tc.SalesItem),
		Collected:              collected,
		Variance:               variance,
		MonthTotal:             prior.Total.Add(collected),
		MonthChanghuaSalesItem: prior.ChanghuaSalesItem.Add(ch.SalesItem),
		MonthTaichungSalesItem: prior.TaichungSalesItem.Add(tc.SalesItem),
	}
}
