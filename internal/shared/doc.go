// Package shared groups helpers used across the report generator that belong to
// no single layer.
//
// The testutil subpackage provides:
//
//   - LogCapture, an slog.Handler that records log lines for assertions
//   - POS export fixtures (CSV, Big5 CSV, XLSX) in the column layout of the
//     store terminals
//   - prior-month workbooks carrying a cumulative panel
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    data := testutil.BuildCSV(testutil.SampleRows())
//	    ...
//	    assert.True(t, logs.ContainsMessage("normalized"))
//	}
package shared
