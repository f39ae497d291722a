// Command sim is the CLI surface: parse a scenario file, evaluate
// every coalition's characteristic value and payoff, select the partitions
// that satisfy a chosen formation criterion, and report or export the
// result. Flags are registered the plain way, with flag.StringVar/
// flag.Parse and small helpers for anything the stdlib flag package
// doesn't parse directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/g-uva/federation-formation-sim/internal/metrics"
	"github.com/g-uva/federation-formation-sim/pkg/coalition"
	"github.com/g-uva/federation-formation-sim/pkg/core"
	"github.com/g-uva/federation-formation-sim/pkg/csvexport"
	"github.com/g-uva/federation-formation-sim/pkg/partition"
	"github.com/g-uva/federation-formation-sim/pkg/report"
	"github.com/g-uva/federation-formation-sim/pkg/rnd"
	"github.com/g-uva/federation-formation-sim/pkg/scenario"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		scenarioPath string
		csvPath      string
		formation    string
		payoffTag    string
		relGap       float64
		tilim        float64
		genVMs       bool
		genPMsOnOff  bool
		genPMsCosts  bool
		genMigrCosts bool
		numIter      int
		seed         int64
		metricsAddr  string
		verbose      bool
	)
	flag.StringVar(&scenarioPath, "scenario", "", "path to the scenario file (mandatory)")
	flag.StringVar(&csvPath, "csv", "", "path to write CSV output to, replacing any existing file (optional)")
	flag.StringVar(&formation, "formation", core.DefaultFormation, "merge-split|nash|pareto|social")
	flag.StringVar(&payoffTag, "payoff", core.DefaultPayoff, "banzhaf|norm-banzhaf|shapley")
	flag.Float64Var(&relGap, "opt-relgap", core.DefaultRelGap, "MILP relative gap tolerance")
	flag.Float64Var(&tilim, "opt-tilim", core.DefaultTimeLimit, "MILP time limit in seconds, -1 for none")
	flag.BoolVar(&genVMs, "rnd-genvms", false, "perturb per-CIP VM counts each iteration")
	flag.BoolVar(&genPMsOnOff, "rnd-genpmsonoff", false, "perturb PM initial on/off states each iteration")
	flag.BoolVar(&genPMsCosts, "rnd-genpmsonoffcosts", false, "perturb PM switch-on/off costs each iteration")
	flag.BoolVar(&genMigrCosts, "rnd-genvmsmigrcosts", false, "perturb VM migration costs each iteration")
	flag.IntVar(&numIter, "rnd-numit", core.DefaultNumIter, "number of perturbation iterations")
	flag.Int64Var(&seed, "rnd-seed", int64(core.DefaultSeed), "seed for the random perturbation generator")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "address to expose Prometheus metrics on (disabled if empty)")
	flag.BoolVar(&verbose, "verbose", false, "enable development-mode (debug level) logging")
	flag.Parse()

	logger := newLogger(verbose)
	defer logger.Sync()

	if scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "sim: missing mandatory --scenario flag")
		flag.Usage()
		return -1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := mainErr(ctx, logger, options{
		scenarioPath: scenarioPath,
		csvPath:      csvPath,
		formation:    formation,
		payoffTag:    payoffTag,
		relGap:       relGap,
		tilim:        tilim,
		rndOpts: rnd.Options{
			GenVMs:           genVMs,
			GenPMsOnOff:      genPMsOnOff,
			GenPMsOnOffCosts: genPMsCosts,
			GenVMsMigrCosts:  genMigrCosts,
		},
		numIter:     numIter,
		seed:        seed,
		metricsAddr: metricsAddr,
	}); err != nil {
		logger.Errorw("run failed", "error", err)
		return -1
	}
	return 0
}

type options struct {
	scenarioPath string
	csvPath      string
	formation    string
	payoffTag    string
	relGap       float64
	tilim        float64
	rndOpts      rnd.Options
	numIter      int
	seed         int64
	metricsAddr  string
}

func mainErr(ctx context.Context, logger *zap.SugaredLogger, opt options) error {
	rule, err := coalition.ParsePayoffRule(opt.payoffTag)
	if err != nil {
		return err
	}
	if !partition.ValidFormation(opt.formation) {
		return fmt.Errorf("%w: unknown formation criterion %q", core.ErrInvalidCLI, opt.formation)
	}

	f, err := os.Open(opt.scenarioPath)
	if err != nil {
		return fmt.Errorf("%w: opening scenario file: %v", core.ErrScenarioParse, err)
	}
	baseline, err := scenario.Parse(f)
	f.Close()
	if err != nil {
		return err
	}

	recorder := metrics.New()
	if opt.metricsAddr != "" {
		go func() {
			if err := recorder.Serve(ctx, opt.metricsAddr); err != nil {
				logger.Warnw("metrics server stopped", "error", err)
			}
		}()
	}

	var csvWriter *csvexport.Writer
	if opt.csvPath != "" {
		out, err := os.Create(opt.csvPath)
		if err != nil {
			return fmt.Errorf("opening csv output: %w", err)
		}
		defer out.Close()
		csvWriter = csvexport.New(out, baseline.NumPlayers)
	}

	perturb := rnd.New(baseline, opt.rndOpts, opt.seed)
	numIter := opt.numIter
	if numIter < 1 {
		numIter = 1
	}

	for iter := 0; iter < numIter; iter++ {
		scn := baseline
		if iter > 0 || hasAnyRndFlag(opt.rndOpts) {
			scn = perturb.Next()
		}

		evaluator := coalition.NewEvaluator(scn, rule,
			coalition.WithLogger(logger),
			coalition.WithRecorder(recorder),
			coalition.WithRelGap(opt.relGap),
			coalition.WithTimeLimit(opt.tilim),
		)

		table, err := evaluator.Evaluate(ctx)
		if err != nil {
			return fmt.Errorf("evaluating iteration %d: %w", iter, err)
		}

		best, err := partition.Select(table, scn.NumPlayers, opt.formation)
		if err != nil {
			return err
		}
		for range best {
			recorder.PartitionAccepted(opt.formation)
		}

		report.Write(os.Stdout, table, best, scn.NumPlayers)

		if csvWriter != nil {
			if err := csvWriter.WriteTable(table); err != nil {
				return fmt.Errorf("writing csv output: %w", err)
			}
		}
	}

	if csvWriter != nil {
		if err := csvWriter.Flush(); err != nil {
			return fmt.Errorf("flushing csv output: %w", err)
		}
	}
	return nil
}

func hasAnyRndFlag(o rnd.Options) bool {
	return o.GenVMs || o.GenPMsOnOff || o.GenPMsOnOffCosts || o.GenVMsMigrCosts
}

func newLogger(verbose bool) *zap.SugaredLogger {
	var l *zap.Logger
	var err error
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		// Fall back rather than crash the CLI over a logging misconfiguration.
		l = zap.NewNop()
	}
	return l.Sugar()
}
