package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"storereport/internal/cumulative"
	apierrors "storereport/internal/errors"
	"storereport/internal/infrastructure"
	"storereport/internal/shared/testutil"
	"storereport/pkg/contracts/domain"
)

func sampleRequest(t *testing.T, workbook []byte) GenerateRequest {
	t.Helper()
	return GenerateRequest{
		RawName:  "pos_0502.csv",
		Raw:      testutil.BuildCSV(testutil.SampleRows()),
		Workbook: workbook,
	}
}

func sheetList(t *testing.T, content []byte) []string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	return f.GetSheetList()
}

func TestReportService_Generate_WithPriorWorkbook(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	svc := NewReportService(logger)

	prior := testutil.PriorWorkbook(t, testutil.PanelSheet{Name: "05-01", Total: 12345, Changhua: 800, Taichung: 300})

	result, err := svc.Generate(context.Background(), sampleRequest(t, prior))
	require.NoError(t, err)

	assert.Equal(t, "2024-05-02", result.Date.Format("2006-01-02"))
	assert.Equal(t, "05-02", result.SheetName)
	assert.Equal(t, "日報表_20240502.xlsx", result.FileName)
	assert.Equal(t, 4, result.Rows)
	assert.Equal(t, 3, result.Stores)
	assert.Empty(t, result.Notices)

	assert.Equal(t, "12345", result.Cumulative.Total.String())
	assert.Equal(t, "7500", result.Totals.Collected.String())
	assert.Equal(t, "19845", result.Totals.MonthTotal.String())
	assert.Equal(t, "2900", result.Totals.MonthChanghuaSalesItem.String())
	assert.Equal(t, "600", result.Totals.MonthTaichungSalesItem.String())

	assert.Equal(t, []string{"05-01", "05-02"}, sheetList(t, result.Content))
	assert.True(t, logs.ContainsMessage("Generate: report run completed"))
	testutil.AssertNoErrors(t, logs)
}

func TestReportService_Generate_WithoutWorkbook(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewReportService(logger)

	result, err := svc.Generate(context.Background(), sampleRequest(t, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{NoticeNoWorkbook}, result.Notices)
	assert.True(t, result.Cumulative.IsZero())
	assert.Equal(t, "7500", result.Totals.MonthTotal.String())
	assert.Equal(t, []string{"05-02"}, sheetList(t, result.Content))
}

func TestReportService_Generate_FirstOfMonthNeedsNoWorkbook(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewReportService(logger)

	rows := testutil.SampleRows()
	for i := range rows {
		if rows[i].Date != "" {
			rows[i].Date = "2024-05-01"
		}
	}

	result, err := svc.Generate(context.Background(), GenerateRequest{RawName: "pos.csv", Raw: testutil.BuildCSV(rows)})
	require.NoError(t, err)
	assert.Equal(t, "05-01", result.SheetName)
	assert.Empty(t, result.Notices)
}

func TestReportService_Generate_CorruptWorkbook(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	svc := NewReportService(logger)

	result, err := svc.Generate(context.Background(), sampleRequest(t, []byte("not a workbook")))
	require.NoError(t, err)

	assert.Equal(t, []string{NoticeCorruptWorkbook}, result.Notices)
	assert.True(t, result.Cumulative.IsZero())
	assert.Equal(t, []string{"05-02"}, sheetList(t, result.Content))
	assert.True(t, logs.ContainsMessage("month workbook unreadable"))
}

func TestReportService_Generate_FixedExtractor(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewReportService(logger, WithExtractor(cumulative.Fixed{Snapshot: domain.CumulativeSnapshot{
		Total:             decimal.NewFromInt(1000),
		ChanghuaSalesItem: decimal.NewFromInt(10),
		TaichungSalesItem: decimal.NewFromInt(20),
	}}))

	result, err := svc.Generate(context.Background(), sampleRequest(t, nil))
	require.NoError(t, err)

	assert.Empty(t, result.Notices, "a supplied carry-forward replaces the workbook")
	assert.Equal(t, "8500", result.Totals.MonthTotal.String())
	assert.Equal(t, "2110", result.Totals.MonthChanghuaSalesItem.String())
	assert.Equal(t, "320", result.Totals.MonthTaichungSalesItem.String())
}

func TestReportService_Generate_UnassignedRegion(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewReportService(logger)

	rows := append(testutil.SampleRows(), testutil.POSRow{
		Region: "嘉義", Store: "D店", Shift: "早", Date: "2024-05-02", SalesItem: "50", Collected: "60", Variance: "0",
	})
	prior := testutil.PriorWorkbook(t, testutil.PanelSheet{Name: "05-01"})

	result, err := svc.Generate(context.Background(), GenerateRequest{RawName: "pos.csv", Raw: testutil.BuildCSV(rows), Workbook: prior})
	require.NoError(t, err)

	assert.Equal(t, []string{"1 筆班別資料的區域無法辨識，僅計入總計"}, result.Notices)
	assert.Equal(t, "7560", result.Totals.Collected.String())
	assert.Equal(t, "2400", result.Totals.SalesItem.String())
}

func TestReportService_Generate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		req      GenerateRequest
		wantType apierrors.ErrorType
	}{
		{
			name:     "empty upload",
			req:      GenerateRequest{RawName: "pos.csv"},
			wantType: apierrors.ErrTypeParsing,
		},
		{
			name:     "no recognisable columns",
			req:      GenerateRequest{RawName: "pos.csv", Raw: testutil.BuildCSVTable([]string{"foo", "bar"}, [][]string{{"1", "2"}})},
			wantType: apierrors.ErrTypeParsing,
		},
		{
			name: "only a grand-total line",
			req: GenerateRequest{RawName: "pos.csv", Raw: testutil.BuildCSV([]testutil.POSRow{
				{Date: "2024-05-02", SalesItem: "10", Collected: "10"},
			})},
			wantType: apierrors.ErrTypeEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			svc := NewReportService(logger)

			result, err := svc.Generate(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apierrors.IsType(err, tt.wantType), "got %v", err)
			assert.True(t, logs.ContainsMessage("Generate: report run aborted"))
		})
	}
}

func TestReportService_Generate_EmptyWrapsSentinel(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewReportService(logger)

	_, err := svc.Generate(context.Background(), GenerateRequest{
		RawName: "pos.csv",
		Raw:     testutil.BuildCSV([]testutil.POSRow{{Date: "2024-05-02"}}),
	})
	assert.True(t, errors.Is(err, apierrors.ErrEmptyResult))
}

func TestReportService_Generate_Telemetry(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	metrics, err := infrastructure.CreateReportMetrics(mp.Meter(infrastructure.MeterName))
	require.NoError(t, err)

	svc := NewReportService(logger, WithTelemetry(tp.Tracer("test"), metrics))

	_, err = svc.Generate(context.Background(), sampleRequest(t, nil))
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), GenerateRequest{RawName: "pos.csv"})
	require.Error(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Contains(t, names, "report.generate")
	assert.Contains(t, names, "report.normalize")
	assert.Contains(t, names, "report.carry_forward")
	assert.Contains(t, names, "report.render")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(1), counterValue(t, rm, "reports_generated_total"))
	assert.Equal(t, int64(4), counterValue(t, rm, "report_rows_normalized_total"))
	assert.Equal(t, int64(1), counterValue(t, rm, "report_rows_dropped_total"))
	assert.Equal(t, int64(1), counterValue(t, rm, "report_failures_total"))
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}
