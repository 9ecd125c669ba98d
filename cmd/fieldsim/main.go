package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/export"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/grid"
	"github.com/san-kum/fieldsim/internal/storage"
	"github.com/san-kum/fieldsim/internal/tracer"
	"github.com/san-kum/fieldsim/internal/viz"
	"github.com/san-kum/fieldsim/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir        string
	linesPerCharge int
	lineLength     int
	resolution     int
	tolExp         int
	stepper        string
	seed           int64
	// Config file
	configFile string
	// Preset name
	preset string
	// Grid sampling
	extent   float64
	gridSize int
	// SVG export
	svgSize  int
	svgOut   string
	contours int
	// Web server
	addr string
)

// main is the entry point for the fieldsim CLI; it registers commands and
// flags and launches the interactive field view when no subcommand is given.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "fieldsim",
		Short: "electric field visualization from point charges",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to interactive mode when no command given
			cfg := config.DefaultConfig()
			sys, err := cfg.System()
			if err != nil {
				return err
			}
			return viz.RunLive(sys, cfg.TracerSettings(), cfg.Tracer.TolExp, cfg.Stepper)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fieldsim", "data directory")

	traceCmd := &cobra.Command{
		Use:   "trace [arrangement]",
		Short: "trace field lines and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  traceRun,
	}
	traceCmd.Flags().IntVar(&linesPerCharge, "lines", config.DefaultLinesPerCharge, "field lines per charge")
	traceCmd.Flags().IntVar(&lineLength, "length", config.DefaultLength, "field line length")
	traceCmd.Flags().IntVar(&resolution, "resolution", config.DefaultResolution, "points per unit length")
	traceCmd.Flags().IntVar(&tolExp, "tol-exp", config.DefaultTolExp, "approach tolerance exponent (tol = 10^-n)")
	traceCmd.Flags().StringVar(&stepper, "stepper", "euler", "stepper")
	traceCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	traceCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	traceCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Float64Var(&extent, "extent", config.DefaultExtent, "half-width of the view window")

	potentialCmd := &cobra.Command{
		Use:   "potential [arrangement]",
		Short: "sample the potential and plot a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  potentialPlot,
	}
	potentialCmd.Flags().Float64Var(&extent, "extent", config.DefaultExtent, "half-width of the sampling window")
	potentialCmd.Flags().IntVar(&gridSize, "grid", config.DefaultGridSize, "grid points per axis")
	potentialCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export field line points to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (stdout if empty)")
	exportSVGCmd.Flags().IntVar(&contours, "contours", 0, "number of equipotential contours to overlay")
	exportSVGCmd.Flags().Float64Var(&extent, "extent", config.DefaultExtent, "half-width of the view window")
	exportSVGCmd.Flags().IntVar(&gridSize, "grid", config.DefaultGridSize, "grid points per axis (contours)")

	liveCmd := &cobra.Command{
		Use:   "live [arrangement]",
		Short: "interactive terminal field view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&linesPerCharge, "lines", config.DefaultLinesPerCharge, "field lines per charge")
	liveCmd.Flags().IntVar(&lineLength, "length", config.DefaultLength, "field line length")
	liveCmd.Flags().IntVar(&resolution, "resolution", config.DefaultResolution, "points per unit length")
	liveCmd.Flags().IntVar(&tolExp, "tol-exp", config.DefaultTolExp, "approach tolerance exponent")
	liveCmd.Flags().StringVar(&stepper, "stepper", "euler", "stepper")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	serveCmd := &cobra.Command{
		Use:   "serve [arrangement]",
		Short: "serve the browser field view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":"+web.DefaultPort, "listen address")
	serveCmd.Flags().IntVar(&linesPerCharge, "lines", config.DefaultLinesPerCharge, "field lines per charge")
	serveCmd.Flags().IntVar(&lineLength, "length", config.DefaultLength, "field line length")
	serveCmd.Flags().IntVar(&resolution, "resolution", config.DefaultResolution, "points per unit length")
	serveCmd.Flags().IntVar(&tolExp, "tol-exp", config.DefaultTolExp, "approach tolerance exponent")
	serveCmd.Flags().StringVar(&stepper, "stepper", "euler", "stepper")
	serveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	benchCmd := &cobra.Command{
		Use:   "bench [arrangement]",
		Short: "benchmark tracing",
		Args:  cobra.ExactArgs(1),
		RunE:  benchTrace,
	}
	benchCmd.Flags().StringVar(&stepper, "stepper", "euler", "stepper")
	benchCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	compareCmd := &cobra.Command{
		Use:   "compare [arrangement] [stepper1] [stepper2] ...",
		Short: "compare steppers on the same arrangement",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSteppers,
	}
	compareCmd.Flags().IntVar(&linesPerCharge, "lines", config.DefaultLinesPerCharge, "field lines per charge")
	compareCmd.Flags().IntVar(&lineLength, "length", config.DefaultLength, "field line length")
	compareCmd.Flags().IntVar(&resolution, "resolution", config.DefaultResolution, "points per unit length")
	compareCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets [arrangement]",
		Short: "list available presets for an arrangement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for arrangement: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(traceCmd, listCmd, plotCmd, potentialCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, liveCmd, serveCmd, benchCmd, compareCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func traceRun(cmd *cobra.Command, args []string) error {
	arrangement := args[0]

	// Load preset if specified
	if preset != "" {
		cfg := config.GetPreset(arrangement, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(arrangement))
		}
		linesPerCharge = cfg.Tracer.LinesPerCharge
		lineLength = cfg.Tracer.Length
		resolution = cfg.Tracer.Resolution
		tolExp = cfg.Tracer.TolExp
		if cfg.Stepper != "" {
			stepper = cfg.Stepper
		}
	}

	// Load config file if specified (CLI flags override config)
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("lines") {
			linesPerCharge = cfg.Tracer.LinesPerCharge
		}
		if !cmd.Flags().Changed("length") {
			lineLength = cfg.Tracer.Length
		}
		if !cmd.Flags().Changed("resolution") {
			resolution = cfg.Tracer.Resolution
		}
		if !cmd.Flags().Changed("tol-exp") {
			tolExp = cfg.Tracer.TolExp
		}
		if !cmd.Flags().Changed("stepper") && cfg.Stepper != "" {
			stepper = cfg.Stepper
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sys, err := buildSystem(arrangement)
	if err != nil {
		return err
	}

	settings := tracer.Settings{
		LinesPerCharge: linesPerCharge,
		Length:         lineLength,
		Resolution:     resolution,
		ApproachTol:    config.Tolerance(tolExp),
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	stp, err := tracer.NewStepper(stepper)
	if err != nil {
		return err
	}

	fmt.Printf("tracing %s field lines...\n", arrangement)
	start := time.Now()

	lines, err := tracer.New(settings, stp).TraceAll(context.Background(), sys)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	metrics := tracer.Summarize(sys, settings, lines)

	runID, err := st.Save(arrangement, stepper, seed, settings, sys, lines, metrics)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("lines: %d\n", len(lines))
	fmt.Println("\nmetrics:")
	for name, val := range metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func buildSystem(arrangement string) (*field.System, error) {
	cfg := config.DefaultConfig()
	cfg.Arrangement = arrangement
	cfg.Seed = seed
	return cfg.System()
}

func systemFromMeta(meta *storage.RunMetadata) *field.System {
	sys := &field.System{}
	for _, c := range meta.Charges {
		sys.Charges = append(sys.Charges, field.Charge{
			Position: field.Vec{X: c.X, Y: c.Y},
			Value:    c.Q,
		})
	}
	return sys
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
	fmt.Fprintln(w, "ID\tARRANGEMENT\tTIME\tSTEPPER\tCHARGES\tLINES/CHARGE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Arrangement,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Stepper,
			len(run.Charges),
			run.Settings.LinesPerCharge,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	lines, err := st.LoadLines(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("arrangement: %s\n", meta.Arrangement)
	fmt.Printf("lines: %d\n\n", len(lines))

	scene := viz.NewScene(80, 24, extent)
	scene.Render(systemFromMeta(meta), lines)
	fmt.Println(scene.String())

	fmt.Println("metrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func potentialPlot(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem(args[0])
	if err != nil {
		return err
	}

	b := grid.Bounds{XMin: -extent, XMax: extent, YMin: -extent, YMax: extent}
	m, err := grid.Potential(context.Background(), sys, b, gridSize, gridSize)
	if err != nil {
		return err
	}

	min, max := m.MinMax()
	fmt.Printf("potential over [%.0f, %.0f]^2 (%dx%d)\n", -extent, extent, gridSize, gridSize)
	fmt.Printf("min: %.4e  max: %.4e\n\n", min, max)

	// Profile along the middle row, in units of the Coulomb constant so
	// the graph axis stays readable.
	profile := make([]float64, m.Nx)
	for ix := 0; ix < m.Nx; ix++ {
		profile[ix] = m.At(ix, m.Ny/2) / field.CoulombK
	}

	graph := asciigraph.Plot(profile,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("V/k along y=0"),
	)
	fmt.Println(graph)
	fmt.Println()

	level := (min + max) / 2
	segs := grid.Contour(m, level)
	fmt.Printf("equipotential V=%.4e: %d segments\n", level, len(segs))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	lines, err := st.LoadLines(runID)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"line", "point", "x", "y"}); err != nil {
		return err
	}
	for i, line := range lines {
		for j, p := range line {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	lines, err := st.LoadLines(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, lines)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	lines, err := st.LoadLines(runID)
	if err != nil {
		return err
	}

	sys := systemFromMeta(meta)
	svg := export.SceneSVG(sys, lines, extent, svgSize)

	if contours > 0 {
		b := grid.Bounds{XMin: -extent, XMax: extent, YMin: -extent, YMax: extent}
		m, err := grid.Potential(context.Background(), sys, b, gridSize, gridSize)
		if err != nil {
			return err
		}
		min, max := m.MinMax()
		var overlay strings.Builder
		for i := 1; i <= contours; i++ {
			level := min + (max-min)*float64(i)/float64(contours+1)
			overlay.WriteString(export.ContourSVG(grid.Contour(m, level), extent, svgSize))
		}
		svg = strings.Replace(svg, "</svg>", overlay.String()+"</svg>", 1)
	}

	if svgOut == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	arrangement := "demo"
	if len(args) > 0 {
		arrangement = args[0]
	}

	sys, err := buildSystem(arrangement)
	if err != nil {
		return err
	}

	settings := tracer.Settings{
		LinesPerCharge: linesPerCharge,
		Length:         lineLength,
		Resolution:     resolution,
		ApproachTol:    config.Tolerance(tolExp),
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	return viz.RunLive(sys, settings, tolExp, stepper)
}

func runServe(cmd *cobra.Command, args []string) error {
	arrangement := "demo"
	if len(args) > 0 {
		arrangement = args[0]
	}

	sys, err := buildSystem(arrangement)
	if err != nil {
		return err
	}

	settings := tracer.Settings{
		LinesPerCharge: linesPerCharge,
		Length:         lineLength,
		Resolution:     resolution,
		ApproachTol:    config.Tolerance(tolExp),
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if _, err := tracer.NewStepper(stepper); err != nil {
		return err
	}

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(log, sys, settings, tolExp, stepper).Launch(ctx, addr)
}

func benchTrace(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem(args[0])
	if err != nil {
		return err
	}

	stp, err := tracer.NewStepper(stepper)
	if err != nil {
		return err
	}

	resolutions := []int{1, 5, 10}
	lineCounts := []int{10, 20, 40}

	fmt.Printf("benchmarking %s (%s)\n\n", args[0], stepper)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOLUTION\tLINES/CHARGE\tPOINTS\tTIME\tPOINTS/SEC")

	for _, res := range resolutions {
		for _, n := range lineCounts {
			settings := tracer.Settings{
				LinesPerCharge: n,
				Length:         config.DefaultLength,
				Resolution:     res,
				ApproachTol:    config.Tolerance(config.DefaultTolExp),
			}

			start := time.Now()
			lines, err := tracer.New(settings, stp).TraceAll(context.Background(), sys)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			points := 0
			for _, line := range lines {
				points += len(line)
			}
			pointsPerSec := float64(points) / elapsed.Seconds()

			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", res, n, points, elapsed, pointsPerSec)
		}
	}

	return w.Flush()
}

func compareSteppers(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem(args[0])
	if err != nil {
		return err
	}
	steppers := args[1:]

	settings := tracer.Settings{
		LinesPerCharge: linesPerCharge,
		Length:         lineLength,
		Resolution:     resolution,
		ApproachTol:    config.Tolerance(config.DefaultTolExp),
	}

	fmt.Printf("comparing steppers for %s (lines=%d, length=%d, resolution=%d)\n\n",
		args[0], linesPerCharge, lineLength, resolution)
	fmt.Printf("%-10s  %-8s  %-14s  %-12s  %-10s\n", "stepper", "lines", "mean_arc_len", "terminated", "time_ms")
	fmt.Println(strings.Repeat("-", 62))

	for _, name := range steppers {
		stp, err := tracer.NewStepper(name)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		lines, err := tracer.New(settings, stp).TraceAll(context.Background(), sys)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		metrics := tracer.Summarize(sys, settings, lines)
		fmt.Printf("%-10s  %8d  %14.4f  %12.0f  %10.2f\n",
			name, len(lines), metrics["mean_arc_length"], metrics["terminated"],
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}
