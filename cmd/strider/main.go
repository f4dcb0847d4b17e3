// Command strider evaluates elastic distances on UCR-style time series
// archives: LOOCV hyperparameter search over a family grid, or a single
// parameterized 1-NN evaluation. Results are emitted as JSON records.
//
// Exit codes: 0 success, 1 invalid arguments, 2 unknown distance or
// transform, 3 dataset I/O error.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/strider-ts/strider/internal/distance"
	serrors "github.com/strider-ts/strider/internal/errors"
	"github.com/strider-ts/strider/internal/logging"
	"github.com/strider-ts/strider/internal/loocv"
	"github.com/strider-ts/strider/internal/reader"
	"github.com/strider-ts/strider/internal/report"
	"github.com/strider-ts/strider/internal/series"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Environment first, flags override.
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("strider", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ucrDir := flag.String("p", cfg.UCRDir, "UCR archive directory")
	dsName := flag.String("dataset", "", "dataset name inside the archive")
	distSpec := flag.String("d", "", "distance: family:cfe for -mode loocv (e.g. dtw:2), full spec for -mode nn1 (e.g. msm:0.5)")
	mode := flag.String("mode", "loocv", "evaluation mode: loocv or nn1")
	transform := flag.String("t", "raw", "transform applied to the series (raw, derivative:<k>)")
	norm := flag.String("n", "", "normalisation applied before the transform (zscore, minmax[:lo:hi], unitlength, meannorm)")
	threads := flag.Int("et", cfg.NbThreads, "number of execution threads, 0 = autodetect")
	seed := flag.Int64("seed", -1, "PRNG seed, negative = random")
	outPath := flag.String("out", "", "path of the JSON report (stdout always gets a copy)")
	metricsAddr := flag.String("metrics", cfg.MetricsAddr, "Prometheus metrics listen address, empty = disabled")
	flag.Parse()

	cfg.NbThreads = *threads
	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, err := logging.NewLogger(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Output: os.Stderr})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	if *metricsAddr != "" {
		go func() {
			logger.Info("starting metrics server", zap.String("address", *metricsAddr))
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	if *ucrDir == "" || *dsName == "" {
		fmt.Fprintln(os.Stderr, ErrMissingDataset)
		return 1
	}
	if *distSpec == "" {
		fmt.Fprintln(os.Stderr, ErrMissingDistance)
		return 1
	}
	if *seed < 0 {
		*seed = int64(rand.Uint64() >> 1)
	}
	nbThreads := cfg.NbThreads
	if nbThreads == 0 {
		nbThreads = runtime.NumCPU() + 2
	}

	rep := report.JSONReporter{W: os.Stdout}
	code, out := evaluate(logger, *ucrDir, *dsName, *mode, *distSpec, *norm, *transform, nbThreads, *seed)
	if err := rep.Emit(out); err != nil {
		logger.Error("emitting report", zap.Error(err))
	}
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("opening report file", zap.Error(err))
			if code == 0 {
				code = 3
			}
		} else {
			defer f.Close()
			if err := (report.JSONReporter{W: f}).Emit(out); err != nil {
				logger.Error("writing report file", zap.Error(err))
			}
		}
	}
	return code
}

// evaluate runs the selected mode and folds any failure into the report and
// exit code.
func evaluate(logger *zap.Logger, ucrDir, dsName, mode, distSpec, norm, transform string, nbThreads int, seed int64) (int, report.Report) {
	fail := func(err error) (int, report.Report) {
		logger.Error("evaluation failed", zap.Error(err))
		return exitCode(err), report.Report{Status: "error", StatusMessage: err.Error()}
	}

	train, test, err := reader.LoadUCR(ucrDir, dsName)
	if err != nil {
		return fail(err)
	}
	logger.Info("dataset loaded",
		zap.String("dataset", dsName),
		zap.Int("train_size", train.Size()),
		zap.Int("test_size", test.Size()))

	if norm != "" {
		if train, err = series.ApplyTransform(train, norm); err != nil {
			return fail(err)
		}
		if test, err = series.ApplyTransform(test, norm); err != nil {
			return fail(err)
		}
	}
	if train, err = series.ApplyTransform(train, transform); err != nil {
		return fail(err)
	}
	if test, err = series.ApplyTransform(test, transform); err != nil {
		return fail(err)
	}

	rng := rand.New(rand.NewSource(seed))
	maxLen := train.Header().LengthMax
	if test.Header().LengthMax > maxLen {
		maxLen = test.Header().LengthMax
	}

	var grid loocv.Grid
	switch mode {
	case "loocv":
		family, cfe, err := splitFamily(distSpec)
		if err != nil {
			return fail(err)
		}
		if grid, err = loocv.BuildGrid(family, cfe, train, rng); err != nil {
			return fail(err)
		}
	case "nn1":
		m, err := distance.ParseMetric(distSpec, maxLen)
		if err != nil {
			return fail(err)
		}
		grid = loocv.Grid{m}
	default:
		return fail(serrors.NewValidationError("main", "mode must be loocv or nn1"))
	}

	outcome, err := loocv.Run(context.Background(), train, test, grid,
		loocv.Options{NbThreads: nbThreads}, rng, logger)
	if err != nil {
		return fail(err)
	}

	best := grid[outcome.BestIndex]
	return 0, report.Report{
		Status:     "success",
		Distance:   &report.Distance{Name: best.Name(), Params: best.Params()},
		LOOCVTrain: report.FromResult(outcome.Train),
		LOOCVTest:  report.FromResult(outcome.Test),
	}
}

// splitFamily parses "family[:cfe]" for loocv mode.
func splitFamily(spec string) (string, float64, error) {
	parts := strings.Split(spec, ":")
	cfe := 1.0
	if len(parts) > 2 {
		return "", 0, serrors.NewValidationError("main", "distance must be family[:cfe] in loocv mode")
	}
	if len(parts) == 2 {
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return "", 0, serrors.NewValidationError("main", "cfe must be a float")
		}
		cfe = v
	}
	return parts[0], cfe, nil
}

// exitCode maps error kinds onto the documented exit codes.
func exitCode(err error) int {
	switch {
	case serrors.IsType(err, serrors.ErrorTypeConfiguration):
		return 2
	case serrors.IsType(err, serrors.ErrorTypeIO):
		return 3
	default:
		return 1
	}
}
