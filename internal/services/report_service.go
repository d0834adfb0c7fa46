package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"storereport/internal/cumulative"
	apierrors "storereport/internal/errors"
	"storereport/internal/infrastructure"
	"storereport/internal/normalize"
	"storereport/internal/report"
	"storereport/pkg/contracts/domain"
)

// Notices attached to a successful run
const (
	NoticeNoWorkbook      = "月累計 Excel 未提供，累計由 0 起算"
	NoticeCorruptWorkbook = "月累計 Excel 無法開啟，已改用新的活頁簿，累計由 0 起算"
	noticeUnassigned      = "%d 筆班別資料的區域無法辨識，僅計入總計"
)

// Failure stages recorded on report_failures_total
const (
	StageNormalize = "normalize"
	StageEmpty     = "empty"
	StageRender    = "render"
)

// GenerateRequest carries the uploads of one run. Workbook may be empty.
type GenerateRequest struct {
	RawName  string
	Raw      []byte
	Workbook []byte
}

// ReportService runs the normalize, carry-forward and render pipeline
type ReportService struct {
	normalizer *normalize.Normalizer
	extractor  cumulative.Extractor
	builder    *report.Builder
	tracer     trace.Tracer
	metrics    *infrastructure.ReportMetrics
	logger     *slog.Logger
}

// ReportOption configures a ReportService
type ReportOption func(*ReportService)

// WithNormalizer replaces the default normalizer
func WithNormalizer(n *normalize.Normalizer) ReportOption {
	return func(s *ReportService) { s.normalizer = n }
}

// WithExtractor replaces the workbook label scanner
func WithExtractor(e cumulative.Extractor) ReportOption {
	return func(s *ReportService) { s.extractor = e }
}

// WithTelemetry records spans on tracer and counters on metrics; either may be nil
func WithTelemetry(tracer trace.Tracer, metrics *infrastructure.ReportMetrics) ReportOption {
	return func(s *ReportService) {
		if tracer != nil {
			s.tracer = tracer
		}
		s.metrics = metrics
	}
}

// NewReportService creates a report service with the default pipeline stages
func NewReportService(logger *slog.Logger, opts ...ReportOption) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ReportService{
		normalizer: normalize.New(logger),
		extractor:  cumulative.NewLabelScanner(logger),
		builder:    report.NewBuilder(logger),
		tracer:     tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName),
		logger:     logger.With(slog.String("service", "report")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces the updated month workbook for one POS export.
// Errors are *errors.AppError of type PARSING, EMPTY or RENDER.
func (s *ReportService) Generate(ctx context.Context, req GenerateRequest) (*domain.ReportResult, error) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "report.generate",
		trace.WithAttributes(
			attribute.String("report.raw_name", req.RawName),
			attribute.Int("report.raw_bytes", len(req.Raw)),
			attribute.Bool("report.has_workbook", len(req.Workbook) > 0),
		))
	defer span.End()

	s.logger.InfoContext(ctx, "Generate: starting report run",
		slog.String("raw_name", req.RawName),
		slog.Int("raw_bytes", len(req.Raw)),
		slog.Int("workbook_bytes", len(req.Workbook)))

	table, date, err := s.normalize(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, StageNormalize, err)
	}
	if table.Empty() {
		return nil, s.fail(ctx, StageEmpty, apierrors.NewEmptyResultError(table.SourceRows).
			WithContext("file", req.RawName))
	}

	var notices []string
	notices = append(notices, table.Warnings...)

	prior := s.carryForward(ctx, req.Workbook, date)
	if len(req.Workbook) == 0 && date.Day() != 1 && prior.IsZero() {
		notices = append(notices, NoticeNoWorkbook)
	}

	content, summary, corrupt, err := s.render(ctx, req.Workbook, report.Input{Table: table, Date: date, Prior: prior})
	if err != nil {
		return nil, s.fail(ctx, StageRender, err)
	}
	if corrupt {
		notices = append(notices, NoticeCorruptWorkbook)
	}
	if summary.Unassigned > 0 {
		notices = append(notices, fmt.Sprintf(noticeUnassigned, summary.Unassigned))
	}

	elapsed := time.Since(started)
	s.metrics.RecordGeneration(ctx, elapsed, len(table.Records), table.SourceRows-len(table.Records))

	span.SetAttributes(
		attribute.String("report.sheet", summary.SheetName),
		attribute.Int("report.rows", summary.Rows),
		attribute.Int("report.stores", summary.Stores),
	)

	s.logger.InfoContext(ctx, "Generate: report run completed",
		slog.String("sheet", summary.SheetName),
		slog.Bool("replaced", summary.Replaced),
		slog.Int("rows", summary.Rows),
		slog.Int("notices", len(notices)),
		slog.Duration("duration", elapsed))

	return &domain.ReportResult{
		Date:       date,
		SheetName:  summary.SheetName,
		FileName:   report.FileName(date),
		Content:    content,
		Table:      table,
		Rows:       summary.Rows,
		Stores:     summary.Stores,
		Totals:     summary.Totals,
		Cumulative: prior,
		Notices:    notices,
	}, nil
}

func (s *ReportService) normalize(ctx context.Context, req GenerateRequest) (*domain.CanonicalTable, time.Time, error) {
	ctx, span := s.tracer.Start(ctx, "report.normalize")
	defer span.End()

	table, date, err := s.normalizer.Load(ctx, req.RawName, req.Raw)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, time.Time{}, err
	}
	span.SetAttributes(
		attribute.Int("report.source_rows", table.SourceRows),
		attribute.Int("report.kept_rows", len(table.Records)),
	)
	return table, date, nil
}

func (s *ReportService) carryForward(ctx context.Context, workbook []byte, date time.Time) domain.CumulativeSnapshot {
	ctx, span := s.tracer.Start(ctx, "report.carry_forward")
	defer span.End()

	prior := s.extractor.Extract(ctx, workbook, date)
	span.SetAttributes(attribute.String("report.prior_total", prior.Total.String()))
	return prior
}

// render builds the sheet into the supplied workbook. A workbook that cannot
// be opened is replaced by a new one and reported through corrupt.
func (s *ReportService) render(ctx context.Context, workbook []byte, in report.Input) ([]byte, report.Summary, bool, error) {
	ctx, span := s.tracer.Start(ctx, "report.render")
	defer span.End()

	corrupt := false
	wb, err := report.OpenWorkbook(workbook)
	if err != nil {
		s.logger.WarnContext(ctx, "month workbook unreadable, starting a new one", slog.String("error", err.Error()))
		wb, corrupt = report.NewWorkbook(), true
	}
	defer wb.Close()

	wb, summary, err := s.builder.Build(ctx, wb, in)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, report.Summary{}, corrupt, apierrors.NewRenderError("無法寫入工作表", err)
	}

	content, err := wb.Bytes()
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, report.Summary{}, corrupt, apierrors.NewRenderError("無法輸出活頁簿", err)
	}
	return content, summary, corrupt, nil
}

// fail logs and records an aborted run
func (s *ReportService) fail(ctx context.Context, stage string, err error) error {
	infrastructure.RecordError(ctx, err)
	s.metrics.RecordFailure(ctx, stage)
	s.logger.ErrorContext(ctx, "Generate: report run aborted",
		slog.String("stage", stage),
		slog.String("error", err.Error()))
	return err
}
