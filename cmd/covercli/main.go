package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"covercli/internal/config"
	"covercli/internal/infrastructure"
	"covercli/internal/operations"
	"covercli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// pathFlags are the per-run file overrides; they apply to a single operation
type pathFlags struct {
	in     string
	out    string
	lookup string
	left   string
	right  string
}

func (f pathFlags) set() bool {
	return f.in != "" || f.out != "" || f.lookup != "" || f.left != "" || f.right != ""
}

// params maps the flags onto the Params fields stepID reads
func (f pathFlags) params(stepID string) (operations.Params, error) {
	switch stepID {
	case operations.StepIDMerge:
		if f.in != "" || f.lookup != "" {
			return operations.Params{}, fmt.Errorf("%s takes -left and -right, not -in or -lookup", stepID)
		}
		return operations.Params{Input: f.left, Right: f.right, Output: f.out}, nil
	case operations.StepIDMatchNames:
		if f.left != "" || f.right != "" {
			return operations.Params{}, fmt.Errorf("-left and -right only apply to %s", operations.StepIDMerge)
		}
		return operations.Params{Input: f.in, Lookup: f.lookup, Output: f.out}, nil
	default:
		if f.lookup != "" {
			return operations.Params{}, fmt.Errorf("-lookup only applies to %s", operations.StepIDMatchNames)
		}
		if f.left != "" || f.right != "" {
			return operations.Params{}, fmt.Errorf("-left and -right only apply to %s", operations.StepIDMerge)
		}
		return operations.Params{Input: f.in, Output: f.out}, nil
	}
}

// buildRequests splits the -op list and attaches the path overrides
func buildRequests(ops string, paths pathFlags) ([]operations.Request, error) {
	var requests []operations.Request
	for _, id := range strings.Split(ops, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		requests = append(requests, operations.Request{StepID: id})
	}

	if len(requests) == 0 {
		return nil, fmt.Errorf("no operation selected, use -op or -list")
	}
	if !paths.set() {
		return requests, nil
	}
	if len(requests) > 1 {
		return nil, fmt.Errorf("file flags apply to a single operation, got %d", len(requests))
	}

	params, err := paths.params(requests[0].StepID)
	if err != nil {
		return nil, err
	}
	requests[0].Params = params
	return requests, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("covercli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	ops := fs.String("op", "", "comma separated operations to run in order (see -list)")
	list := fs.Bool("list", false, "list the operations and their default files")
	configFile := fs.String("config", "", "YAML configuration file")
	showVersion := fs.Bool("version", false, "print the version and exit")

	var pf pathFlags
	fs.StringVar(&pf.in, "in", "", "input table (cover-loss, match-names, cover-gain, to-json)")
	fs.StringVar(&pf.out, "out", "", "output file")
	fs.StringVar(&pf.lookup, "lookup", "", "ISO metadata table (match-names)")
	fs.StringVar(&pf.left, "left", "", "left table (merge)")
	fs.StringVar(&pf.right, "right", "", "right table (merge)")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "covercli: %v\n", err)
		return 1
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		fmt.Fprintf(stderr, "covercli: %v\n", err)
		return 1
	}
	cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "covercli: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)

	registry, err := operations.NewDefaultRegistry(cfg.Join)
	if err != nil {
		logger.Error("Failed to register operations", slog.String("error", err.Error()))
		return 1
	}

	if *list {
		operations.RenderSteps(stdout, registry, paths)
		return 0
	}

	requests, err := buildRequests(*ops, pf)
	if err != nil {
		fmt.Fprintf(stderr, "covercli: %v\n", err)
		fs.Usage()
		return 1
	}
	// unknown operations fail before telemetry records anything
	for _, req := range requests {
		if !registry.Has(req.StepID) {
			reportError(stderr, operations.NewNotFoundError(req.StepID, registry.ListIDs()))
			return 1
		}
	}

	traceWriter, closeTrace, err := openTraceWriter(cfg.Telemetry.TraceFile)
	if err != nil {
		logger.Error("Failed to open trace file", slog.String("error", err.Error()))
		return 1
	}
	defer closeTrace()

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry, traceWriter), logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		logger.Error("Failed to create operation tracer", slog.String("error", err.Error()))
		return 1
	}

	ctx := infrastructure.StartRun(context.Background())
	logger.InfoContext(ctx, "Starting covercli",
		slog.String("version", contracts.Version),
		slog.String("operations", *ops),
		slog.String("data_dir", paths.DataDir))

	runner := operations.NewRunner(registry, paths, tracer, logger)
	results, runErr := runner.Run(ctx, requests...)

	for _, res := range results {
		if err := operations.RenderResult(stdout, res); err != nil {
			logger.ErrorContext(ctx, "Failed to print result", slog.String("error", err.Error()))
		}
	}

	if err := providers.WriteMetricsFile(cfg.Telemetry.MetricsFile); err != nil {
		logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.ErrorContext(ctx, "Run failed",
			slog.String("error_type", string(operations.GetErrorType(runErr))),
			slog.String("error", runErr.Error()))
		reportError(stderr, runErr)
		return 1
	}

	logger.InfoContext(ctx, "Run complete", slog.Int("operations", len(results)))
	return 0
}

// reportError prints err, pointing at -list when an operation is unknown
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "covercli: %v\n", err)
	if operations.IsNotFoundError(err) {
		fmt.Fprintln(w, "covercli: run covercli -list to see the operations")
	}
}

// openTraceWriter opens the span dump file; an empty path leaves the
// exporter on stderr
func openTraceWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace file %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
