package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/copulab/internal/analysis"
	"github.com/san-kum/copulab/internal/automation"
	"github.com/san-kum/copulab/internal/config"
	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/experiment"
	"github.com/san-kum/copulab/internal/export"
	"github.com/san-kum/copulab/internal/metrics"
	"github.com/san-kum/copulab/internal/rng"
	"github.com/san-kum/copulab/internal/sim"
	"github.com/san-kum/copulab/internal/storage"
	"github.com/san-kum/copulab/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func sampleRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg).WithLogger(log)
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sampling %d from %s copula...\n", cfg.Samples, cfg.Family)
	result, err := exp.Run(ctx)
	if err != nil && (result == nil || len(result.Samples) == 0) {
		return err
	}
	if err != nil {
		log.Warn("run interrupted, saving partial samples", zap.Int("samples", len(result.Samples)), zap.Error(err))
	}

	runID, err := st.Save(exp.Metadata(result), result)
	if err != nil {
		return err
	}
	log.Info("run saved", zap.String("run", runID), zap.String("dir", st.BaseDir()))

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("seed: %d\n", exp.Seed())
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)

	if doVerify {
		fmt.Println()
		return printChecks(analysis.Verify(exp.Copula(), rows(result.Samples)))
	}
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, m[name])
	}
}

func printChecks(checks []analysis.Check) error {
	failed := 0
	for _, c := range checks {
		fmt.Println(c.String())
		if !c.Pass() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Printf("all %d checks passed\n", len(checks))
	return nil
}

func rows(samples []sim.Sample) [][]float64 {
	out := make([][]float64, len(samples))
	for i, u := range samples {
		out[i] = u
	}
	return out
}

// loadRun returns the named run, or the latest one when no ID is given.
func loadRun(args []string) (*storage.RunMetadata, [][]float64, error) {
	st := storage.New(dataDir)
	var meta *storage.RunMetadata
	var err error
	if len(args) > 0 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
	}
	if err != nil {
		return nil, nil, err
	}
	data, err := st.LoadSamples(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", meta.ID)
	}
	return meta, data, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFAMILY\tDIM\tCORR\tSAMPLES\tSEED\tWORKERS\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Family,
			run.Dimension,
			run.CorrelationType,
			run.Samples,
			run.Seed,
			run.Workers,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, data, err := loadRun(args)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("family: %s\n", meta.Family)
	fmt.Printf("samples: %d\n\n", len(data))

	dim := len(data[0])
	maxPlots := 6
	if dim > maxPlots {
		dim = maxPlots
	}
	col := make([]float64, len(data))
	for j := 0; j < dim; j++ {
		for i, u := range data {
			col[i] = u[j]
		}
		density := analysis.Density(analysis.Histogram(col, bins))
		graph := asciigraph.Plot(density,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("u%d density", j)),
		)
		fmt.Println(graph)

		if s, err := metrics.Describe(col); err == nil {
			fmt.Printf("mean %.4f  sd %.4f  min %.4f  q25 %.4f  median %.4f  q75 %.4f  max %.4f\n",
				s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
		}
		fmt.Println()
	}
	return nil
}

func scatterRun(cmd *cobra.Command, args []string) error {
	meta, data, err := loadRun(args)
	if err != nil {
		return err
	}
	if err := checkAxes(len(data[0])); err != nil {
		return err
	}
	fmt.Printf("run: %s (%s)  u%d vs u%d\n", meta.ID, meta.Family, xAxis, yAxis)
	fmt.Print(analysis.ScatterToASCII(analysis.NewScatter(data, xAxis, yAxis), 60, 24))
	return nil
}

func checkAxes(dim int) error {
	if xAxis < 0 || yAxis < 0 || xAxis >= dim || yAxis >= dim {
		return fmt.Errorf("axes (%d, %d) out of range for dimension %d", xAxis, yAxis, dim)
	}
	return nil
}

func verifyRun(cmd *cobra.Command, args []string) error {
	meta, data, err := loadRun(args)
	if err != nil {
		return err
	}
	settings, err := meta.Settings()
	if err != nil {
		return err
	}
	c, err := copula.New(settings, rng.New(meta.Seed))
	if err != nil {
		return err
	}
	fmt.Printf("run: %s (%s, %d samples)\n\n", meta.ID, meta.Family, len(data))
	return printChecks(analysis.Verify(c, data))
}

// outputWriter opens output, or returns stdout when it is empty.
func outputWriter() (io.Writer, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, data, err := loadRun(args)
	if err != nil {
		return err
	}
	w, done, err := outputWriter()
	if err != nil {
		return err
	}
	ss := make([]sim.Sample, len(data))
	for i, u := range data {
		ss[i] = u
	}
	if err := storage.WriteCSV(w, ss); err != nil {
		done()
		return err
	}
	return done()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, data, err := loadRun(args)
	if err != nil {
		return err
	}
	w, done, err := outputWriter()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, data); err != nil {
		done()
		return err
	}
	return done()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, data, err := loadRun(args)
	if err != nil {
		return err
	}
	if err := checkAxes(len(data[0])); err != nil {
		return err
	}
	svg := scatterSVG(data)
	if output == "" {
		return export.WriteSVG(os.Stdout, svg)
	}
	if err := export.WriteSVGFile(output, svg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s, u%d vs u%d)\n", output, meta.ID, xAxis, yAxis)
	return nil
}

// braille canvas size in cells; 2x4 dots per cell gives a square plot
const (
	brailleCols = 60
	brailleRows = 30
)

func scatterSVG(data [][]float64) string {
	s := analysis.NewScatter(data, xAxis, yAxis)
	if braille {
		return export.BrailleToSVG(s, brailleCols, brailleRows, float64(svgSize)/(2*brailleCols))
	}
	return export.ScatterToSVG(s, svgSize, svgColor)
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Delete(args[0]); err != nil {
		return err
	}
	log.Info("run deleted", zap.String("run", args[0]))
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func liveRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" && configFile == "" {
		return viz.RunInteractive(seed)
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := cfg.Settings()
	if err != nil {
		return err
	}
	src := rng.Default()
	if cfg.Seed != 0 {
		src = rng.New(cfg.Seed)
	}
	c, err := copula.New(s, src)
	if err != nil {
		return err
	}
	title := cfg.Family
	if preset != "" {
		title += "/" + preset
	}
	return viz.Run(c, viz.Options{Title: title, Batch: batch, Limit: limit})
}

func benchRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := cfg.Settings()
	if err != nil {
		return err
	}
	build := func(src rng.Source) (copula.Copula, error) { return copula.New(s, src) }
	if _, err := build(rng.New(1)); err != nil {
		return err
	}

	counts := []int{1}
	for w := 2; w <= runtime.NumCPU(); w *= 2 {
		counts = append(counts, w)
	}

	fmt.Printf("benchmarking %s, %d samples\n\n", cfg.Family, benchSize)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tSAMPLES\tTIME\tSAMPLES/SEC")

	throughput := make([]float64, 0, len(counts))
	for _, n := range counts {
		e := sim.NewEnsemble(build, n, 42).WithLogger(log)
		start := time.Now()
		result, err := e.Run(context.Background(), sim.Config{Samples: benchSize})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		rate := float64(len(result.Samples)) / elapsed.Seconds()
		throughput = append(throughput, rate)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, len(result.Samples), elapsed, rate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(throughput) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(throughput,
			asciigraph.Height(8),
			asciigraph.Caption("samples/sec by worker step")))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	families := config.Families()
	if len(args) > 0 {
		family, err := familyArg(args)
		if err != nil {
			return err
		}
		families = []string{family}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tPRESET\tCORR\tPARAMS\tSAMPLES")
	found := false
	for _, f := range families {
		for _, name := range config.ListPresets(f) {
			found = true
			p := config.GetPreset(f, name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", f, name, p.CorrelationType, presetParams(p), p.Samples)
		}
	}
	if !found {
		return fmt.Errorf("no presets for %v (families: %s)", families, strings.Join(config.Families(), ", "))
	}
	return w.Flush()
}

func presetParams(p *config.Config) string {
	var parts []string
	if p.Theta > 0 {
		parts = append(parts, fmt.Sprintf("theta=%g", p.Theta))
	} else if len(p.Rho) > 0 {
		parts = append(parts, "rho="+config.FormatRho(p.Rho))
	}
	if p.Family == string(copula.FamilyStudentT) {
		parts = append(parts, fmt.Sprintf("df=%g", p.DegreesOfFreedom))
	}
	return strings.Join(parts, " ")
}

func scenarioRun(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	results, runErr := automation.NewRunner(st, log).RunScenario(context.Background(), sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFAMILY\tSAMPLES\tTIME\tRUN\tVERIFY")
	for _, r := range results {
		status := "-"
		if len(r.Checks) > 0 {
			status = "pass"
			if !r.Passed() {
				status = "FAIL"
			}
		}
		run := r.RunID
		if run == "" {
			run = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fms\t%s\t%s\n", r.Step, r.Meta.Family, r.Meta.Samples, r.Meta.ElapsedMS, run, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func sweepRun(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	n, _ := flags.GetInt("samples")
	s, _ := flags.GetUint64("seed")
	wk, _ := flags.GetInt("workers")
	df, _ := flags.GetFloat64("df")
	family, err := familyArg(args)
	if err != nil {
		return err
	}

	res, err := automation.NewRunner(nil, log).RunSweep(context.Background(), &automation.ParameterSweep{
		Family:           family,
		DegreesOfFreedom: df,
		TauMin:           tauMin,
		TauMax:           tauMax,
		NumSteps:         steps,
		Samples:          n,
		Seed:             s,
		Workers:          wk,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAU\tEMPIRICAL\tERROR\tLAMBDA_L\tLAMBDA_U")
	errs := make([]float64, len(res))
	for i, r := range res {
		errs[i] = r.Empirical - r.Tau
		fmt.Fprintf(w, "%.4f\t%.4f\t%+.4f\t%.4f\t%.4f\n", r.Tau, r.Empirical, errs[i], r.Lower, r.Upper)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(errs, asciigraph.Height(6), asciigraph.Caption("empirical - target tau")))
	return nil
}

func replicateRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	res, err := automation.NewRunner(nil, log).RunReplicates(context.Background(), &automation.ReplicateConfig{
		Config: cfg,
		Trials: trials,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s over %d trials of %d samples\n", res.Metric, len(res.Values), cfg.Samples)
	s := res.Summary
	fmt.Printf("mean %.5f  sd %.5f  min %.5f  median %.5f  max %.5f\n", s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	if len(res.Values) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Values, asciigraph.Height(6), asciigraph.Caption(res.Metric+" by trial")))
	}
	return nil
}
