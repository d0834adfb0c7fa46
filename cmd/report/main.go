// Command report builds the daily revenue sheet from a POS shift export
// without starting the web server.
//
//	report -raw pos_0502.csv -workbook 五月.xlsx
//	report -raw pos_0502.xlsx -prior-total 12345 -prior-changhua 800 -prior-taichung 300
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shopspring/decimal"

	"storereport/internal/config"
	"storereport/internal/cumulative"
	apierrors "storereport/internal/errors"
	"storereport/internal/exporter"
	"storereport/internal/files"
	"storereport/internal/infrastructure"
	"storereport/internal/services"
	"storereport/internal/validation"
	"storereport/pkg/contracts"
	"storereport/pkg/contracts/domain"
)

type options struct {
	raw      string
	workbook string
	out      string
	csv      string
	dir      string
	verbose  bool

	priorTotal    string
	priorChanghua string
	priorTaichung string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := infrastructure.NewLoggerWithWriter(os.Stderr, &slog.HandlerOptions{Level: level})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s\n", apierrors.UserMessage(err))
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.StringVar(&opts.raw, "raw", "", "POS shift export (.csv, .xlsx or .xlsm)")
	fs.StringVar(&opts.workbook, "workbook", "", "month report workbook to carry totals from and append to")
	fs.StringVar(&opts.out, "out", "", "output workbook path (defaults to reports/日報表_YYYYMMDD.xlsx)")
	fs.StringVar(&opts.csv, "csv", "", "also write the cleaned shift table as CSV; relative paths go under exports/")
	fs.StringVar(&opts.dir, "dir", "", "base directory for reports/ and exports/ (defaults to the executable directory)")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.StringVar(&opts.priorTotal, "prior-total", "", "month revenue carried forward, used instead of reading the workbook")
	fs.StringVar(&opts.priorChanghua, "prior-changhua", "", "Changhua sales-item amount carried forward")
	fs.StringVar(&opts.priorTaichung, "prior-taichung", "", "Taichung sales-item amount carried forward")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return opts, flag.ErrHelp
	}
	if opts.raw == "" {
		fs.Usage()
		return opts, errors.New("-raw is required")
	}
	return opts, nil
}

// priorSnapshot returns the typed carry-forward figures, or ok=false when none were given
func (o options) priorSnapshot() (snapshot domain.CumulativeSnapshot, ok bool, err error) {
	if o.priorTotal == "" && o.priorChanghua == "" && o.priorTaichung == "" {
		return snapshot, false, nil
	}

	parse := func(name, value string) (decimal.Decimal, error) {
		if value == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid -%s %q: %w", name, value, err)
		}
		return d, nil
	}

	if snapshot.Total, err = parse("prior-total", o.priorTotal); err != nil {
		return snapshot, false, err
	}
	if snapshot.ChanghuaSalesItem, err = parse("prior-changhua", o.priorChanghua); err != nil {
		return snapshot, false, err
	}
	if snapshot.TaichungSalesItem, err = parse("prior-taichung", o.priorTaichung); err != nil {
		return snapshot, false, err
	}
	return snapshot, true, nil
}

func run(ctx context.Context, opts options, logger *slog.Logger, stdout io.Writer) error {
	paths, err := resolvePaths(opts.dir)
	if err != nil {
		return err
	}
	paths.LogPathResolution(logger)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateRawFile(opts.raw); err != nil {
		return apierrors.NewAppValidationError(err.Error())
	}
	raw, err := os.ReadFile(opts.raw)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.raw, err)
	}

	var workbook []byte
	if opts.workbook != "" {
		exists, err := validator.ValidateWorkbookFile(opts.workbook)
		if err != nil {
			return apierrors.NewAppValidationError(err.Error())
		}
		if exists {
			if workbook, err = os.ReadFile(opts.workbook); err != nil {
				return fmt.Errorf("read %s: %w", opts.workbook, err)
			}
		}
	}

	var serviceOpts []services.ReportOption
	snapshot, fixed, err := opts.priorSnapshot()
	if err != nil {
		return apierrors.NewAppValidationError(err.Error())
	}
	if fixed {
		serviceOpts = append(serviceOpts, services.WithExtractor(cumulative.Fixed{Snapshot: snapshot}))
	}

	svc := services.NewReportService(logger, serviceOpts...)
	result, err := svc.Generate(ctx, services.GenerateRequest{
		RawName:  filepath.Base(opts.raw),
		Raw:      raw,
		Workbook: workbook,
	})
	if err != nil {
		return err
	}

	out := paths.GetReportPath(result.FileName)
	if opts.out != "" {
		if out, err = filepath.Abs(opts.out); err != nil {
			return fmt.Errorf("resolve %s: %w", opts.out, err)
		}
	}
	if err := validator.ValidateOutputDirectory(filepath.Dir(out)); err != nil {
		return err
	}

	manager := files.NewManager(paths, logger)
	if len(workbook) > 0 && sameFile(out, opts.workbook) {
		backup, err := manager.Backup(out)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "備份: %s\n", backup)
	}
	if out, err = manager.WriteFile(out, result.Content); err != nil {
		return err
	}
	logger.InfoContext(ctx, "report written",
		slog.String("path", out),
		slog.String("sheet", result.SheetName))

	fmt.Fprintf(stdout, "✅ %s 報表生成完成！ %s\n", result.SheetName, out)
	for _, notice := range result.Notices {
		fmt.Fprintf(stdout, "⚠️ %s\n", notice)
	}

	if opts.csv != "" {
		tables := exporter.NewTableExporter(paths, exporter.NewCSVWriter(paths, logger))
		written, err := tables.Export(result.Table, result.Date, opts.csv)
		if err != nil {
			return fmt.Errorf("export canonical table: %w", err)
		}
		fmt.Fprintf(stdout, "CSV: %s\n", written)
	}

	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func resolvePaths(dir string) (*config.Paths, error) {
	if dir != "" {
		return config.NewPaths(dir), nil
	}
	return config.GetPaths()
}
