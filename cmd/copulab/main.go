package main

import (
	"fmt"
	"os"

	"github.com/san-kum/copulab/internal/config"
	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/logging"
	"github.com/san-kum/copulab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	verbose  bool
	log      = logging.Nop()
	corrType string
	rhoFlag  string
	dof      float64
	theta    float64
	samples  int
	seed     uint64
	workers  int
	// Config file
	configFile string
	// Preset name
	preset string
	// Scatter / svg axes
	xAxis int
	yAxis int
	// Output file for exports, stdout when empty
	output    string
	bins      int
	svgSize   int
	svgColor  string
	batch     int
	limit     int
	doVerify  bool
	braille   bool
	tauMin    float64
	tauMax    float64
	steps     int
	trials    int
	benchSize int
)

// main registers the commands and flags and runs the root command. Without a
// subcommand it opens the interactive preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "copulab",
		Short: "copula sampling lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.NewFromEnv(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(seed)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".copulab", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")

	sampleCmd := &cobra.Command{
		Use:   "sample [family]",
		Short: "draw samples and save a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sampleRun,
	}
	addCopulaFlags(sampleCmd)
	sampleCmd.Flags().BoolVar(&doVerify, "verify", false, "check the samples against the copula")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot marginal histograms",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")

	scatterCmd := &cobra.Command{
		Use:   "scatter [run_id]",
		Short: "ascii scatter of two coordinates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  scatterRun,
	}
	addAxisFlags(scatterCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify [run_id]",
		Short: "compare a run with its copula",
		Args:  cobra.MaximumNArgs(1),
		RunE:  verifyRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export samples as csv",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples as json",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a scatter plot as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	addAxisFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")
	exportSVGCmd.Flags().StringVar(&svgColor, "color", "#00ccff", "point colour")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render the braille canvas of the live view")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live [family]",
		Short: "stream samples in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveRun,
	}
	addCopulaFlags(liveCmd)
	liveCmd.Flags().IntVar(&batch, "batch", viz.DefaultBatch, "samples per frame")
	liveCmd.Flags().IntVar(&limit, "limit", 0, "stop after this many samples (0 runs until quit)")

	benchCmd := &cobra.Command{
		Use:   "bench [family]",
		Short: "measure sampling throughput across worker counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchRun,
	}
	addCopulaFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSize, "size", 100000, "samples per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list built-in presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml batch of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  scenarioRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [family]",
		Short: "sample across a range of kendall's tau",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepRun,
	}
	sweepCmd.Flags().Float64Var(&tauMin, "tau-min", 0.1, "first tau")
	sweepCmd.Flags().Float64Var(&tauMax, "tau-max", 0.8, "last tau")
	sweepCmd.Flags().IntVar(&steps, "steps", 8, "number of tau values")
	sweepCmd.Flags().Float64Var(&dof, "df", config.DefaultDegreesOfFreedom, "degrees of freedom (t)")
	sweepCmd.Flags().IntVarP(&samples, "samples", "n", 2000, "samples per run")
	sweepCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	sweepCmd.Flags().IntVar(&workers, "workers", 1, "parallel workers")

	replicateCmd := &cobra.Command{
		Use:   "replicate [family]",
		Short: "repeat a run over seeds and summarise kendall's tau",
		Args:  cobra.MaximumNArgs(1),
		RunE:  replicateRun,
	}
	addCopulaFlags(replicateCmd)
	replicateCmd.Flags().IntVar(&trials, "trials", 20, "number of runs")

	rootCmd.AddCommand(sampleCmd, listCmd, deleteCmd, plotCmd, scatterCmd, verifyCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, liveCmd, benchCmd, presetsCmd, scenarioCmd, sweepCmd, replicateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCopulaFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&corrType, "corr", config.DefaultCorrelationType, "correlation type: pearson, kendall or spearman")
	cmd.Flags().StringVar(&rhoFlag, "rho", "", `correlation matrix "1,0.5;0.5,1" or a scalar`)
	cmd.Flags().Float64Var(&dof, "df", config.DefaultDegreesOfFreedom, "degrees of freedom (t)")
	cmd.Flags().Float64Var(&theta, "theta", 0, "generator parameter (clayton, gumbel)")
	cmd.Flags().IntVarP(&samples, "samples", "n", config.DefaultSamples, "number of samples")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers")
	cmd.Flags().StringVar(&configFile, "config", "", "yaml config file")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset of the family")
}

func addAxisFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&xAxis, "x", 0, "coordinate on the x axis")
	cmd.Flags().IntVar(&yAxis, "y", 1, "coordinate on the y axis")
}

// familyArg resolves the optional positional family, aliases included.
func familyArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	f, err := copula.ParseFamily(args[0])
	if err != nil {
		return "", err
	}
	return string(f), nil
}

// resolveConfig layers family defaults, the preset, the config file and the
// flags the user set, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	family, err := familyArg(args)
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultFor(family)
	if preset != "" {
		if family == "" {
			return nil, fmt.Errorf("--preset needs a family")
		}
		p := config.GetPreset(family, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(family))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
		if family != "" && cfg.Family != family {
			return nil, fmt.Errorf("config family %q conflicts with %q", cfg.Family, family)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("corr") {
		cfg.CorrelationType = corrType
	}
	if flags.Changed("rho") {
		rows, err := config.ParseRho(rhoFlag)
		if err != nil {
			return nil, err
		}
		cfg.Rho = rows
	}
	if flags.Changed("df") {
		cfg.DegreesOfFreedom = dof
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}
