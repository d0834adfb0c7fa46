// Package normalize turns a raw POS shift export into canonical shift records.
//
// The export arrives as CSV or XLSX with column headers that vary between
// terminal firmware versions but always contain known substrings such as
// "班別營業|店名". Columns are matched against an ordered marker list, the table
// is projected to the matched fields, rows without a store name are dropped
// (the terminal appends a grand-total line with no store), amounts are coerced
// to decimals, region labels are folded onto the two reported regions and the
// variance sign is inverted.
//
// CSV input is read as UTF-8 first and falls back to Big5 (code page 950),
// the encoding older terminals still produce.
//
// Basic usage:
//
//	n := normalize.New(logger)
//	table, reportDate, err := n.Load(ctx, "shift.csv", data)
//	if err != nil {
//	    // *errors.AppError of type PARSING
//	}
package normalize
