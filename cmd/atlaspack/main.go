// Command atlaspack reads a listing of rectangle sizes and packs them into
// a single atlas, printing the computed placements as JSON.
//
// The input is one entry per line, "id width height", with blank lines and
// #-comments ignored:
//
//	hair_diffuse 512 512
//	body_diffuse 1024 1024
//	eye_l 64 32
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"atlaspack/rectpack"
)

// sortFuncs maps --sort names to the comparers applied before packing.
// Pre-sorting matters for the order-sensitive strategies; minside is the
// usual choice for BinaryTree.
var sortFuncs = map[string]rectpack.SortFunc{
	"area":      rectpack.SortArea,
	"perimeter": rectpack.SortPerimeter,
	"maxside":   rectpack.SortMaxSide,
	"minside":   rectpack.SortMinSide,
	"width":     rectpack.SortWidth,
	"height":    rectpack.SortHeight,
}

type options struct {
	input         string
	output        string
	strategy      string
	heuristic     string
	margin        int
	padding       int
	rotate        bool
	solverMode    string
	width         int
	height        int
	timeout       time.Duration
	growthStep    int
	aspectPenalty float64
	sort          string
}

// report is the JSON document written on success.
type report struct {
	Strategy   string                   `json:"strategy"`
	Width      int                      `json:"width"`
	Height     int                      `json:"height"`
	Used       float64                  `json:"used"`
	Placements map[string]rectpack.Rect `json:"placements"`
}

func main() {
	var opts options
	pflag.StringVarP(&opts.input, "input", "i", "-", "size listing to read, or - for stdin")
	pflag.StringVarP(&opts.output, "output", "o", "-", "file to write the JSON report to, or - for stdout")
	pflag.StringVarP(&opts.strategy, "strategy", "s", "BinaryTree", "packing strategy: BinaryTree, MaxRects, Guillotine, Skyline, or Solver")
	pflag.StringVar(&opts.heuristic, "heuristic", "", "pin a placement heuristic for MaxRects or Skyline")
	pflag.IntVar(&opts.margin, "margin", 0, "minimum gap in pixels between placed rectangles (MaxRects)")
	pflag.IntVarP(&opts.padding, "padding", "p", 0, "pixels reserved around every rectangle")
	pflag.BoolVarP(&opts.rotate, "rotate", "r", false, "allow 90 degree rotation of rectangles")
	pflag.StringVar(&opts.solverMode, "mode", "po2", "solver bin sizing: fixed, po2, square, or minimal")
	pflag.IntVar(&opts.width, "width", 0, "bin width for the fixed solver mode")
	pflag.IntVar(&opts.height, "height", 0, "bin height for the fixed solver mode")
	pflag.DurationVar(&opts.timeout, "timeout", 0, "time budget for the solver search (default 5s)")
	pflag.IntVar(&opts.growthStep, "growth-step", 0, "per-axis growth increment for MaxRects and Skyline (default 32)")
	pflag.Float64Var(&opts.aspectPenalty, "aspect-penalty", 0, "penalty weight for non-square guillotine bins (default 0.15)")
	pflag.StringVar(&opts.sort, "sort", "", "pre-sort input descending by: area, perimeter, maxside, minside, width, or height")
	pflag.Parse()

	if err := run(&opts); err != nil {
		fmt.Fprintln(os.Stderr, "atlaspack:", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	sizes, err := readSizes(opts.input)
	if err != nil {
		return err
	}

	if opts.sort != "" {
		less, ok := sortFuncs[opts.sort]
		if !ok {
			return fmt.Errorf("unknown sort order %q", opts.sort)
		}
		slices.SortStableFunc(sizes, less)
	}

	result, err := rectpack.Pack(sizes, cfg)
	if err != nil {
		return err
	}
	return writeReport(opts.output, cfg.Strategy, result)
}

func buildConfig(opts *options) (rectpack.Config, error) {
	var cfg rectpack.Config

	strategy, err := rectpack.ParseStrategy(opts.strategy)
	if err != nil {
		return cfg, err
	}
	cfg.Strategy = strategy
	cfg.Margin = opts.margin
	cfg.Padding = opts.padding
	cfg.AllowRotate = opts.rotate
	cfg.GrowthStep = opts.growthStep
	cfg.AspectPenalty = opts.aspectPenalty
	cfg.SolverTimeout = opts.timeout
	cfg.FixedWidth = opts.width
	cfg.FixedHeight = opts.height

	if opts.heuristic != "" {
		if cfg.Heuristic = rectpack.ParseHeuristic(opts.heuristic); cfg.Heuristic == 0 {
			return cfg, fmt.Errorf("unknown heuristic %q", opts.heuristic)
		}
	}

	switch opts.solverMode {
	case "fixed":
		cfg.SolverMode = rectpack.SolverFixedSize
	case "po2":
		cfg.SolverMode = rectpack.SolverPowerOfTwo
	case "square":
		cfg.SolverMode = rectpack.SolverSquare
	case "minimal":
		cfg.SolverMode = rectpack.SolverMinimal
	default:
		return cfg, fmt.Errorf("unknown solver mode %q", opts.solverMode)
	}
	return cfg, nil
}

// readSizes parses the "id width height" listing, skipping blank lines and
// #-comments.
func readSizes(path string) ([]rectpack.Size, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var sizes []rectpack.Size
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"id width height\", got %q", line, text)
		}
		w, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad width %q", line, fields[1])
		}
		h, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad height %q", line, fields[2])
		}
		sizes = append(sizes, rectpack.NewSize(fields[0], w, h))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sizes, nil
}

func writeReport(path string, strategy rectpack.Strategy, result *rectpack.Result) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report{
		Strategy:   strategy.String(),
		Width:      result.Width,
		Height:     result.Height,
		Used:       result.Used(),
		Placements: result.Placements,
	})
}
