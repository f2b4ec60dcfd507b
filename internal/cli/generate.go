package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/pipeline"
	"github.com/matzehuels/fixturefit/pkg/search"
)

// generateFlags collects the flags of the generate command. Flags override
// the matching fields of a request file only when set explicitly.
type generateFlags struct {
	room     string
	fixtures []string
	doors    []string
	windows  []string
	weights  map[string]string
	output   string
	noCache  bool
}

// generatedFile is the JSON document written by generate.
type generatedFile struct {
	search.Result
	Analysis pipeline.Analysis `json:"analysis"`
}

// generateCommand creates the generate command for searching layouts.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "generate [request.toml]",
		Short: "Search for the best fixture layout of a room",
		Long: `Search for the best fixture layout of a room.

The room, its doors and windows and the fixtures to place come from a TOML
or JSON request file, from flags, or both (flags win). Openings are given as
WALL:OFFSET:WIDTH where the offset runs along the wall; windows accept an
optional :SILL height.

  fixturefit generate --room 200x250x250 -f toilet -f sink -f shower \
      --door left:20:80 --window top:60:90:100

The ranked candidates and a free-space analysis of the best layout are
written as JSON. Results are cached locally (or in Redis with --redis).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runGenerate(cmd, input, opts, flags)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json or layout.json)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	// Request flags
	cmd.Flags().StringVar(&flags.room, "room", "", "room size WIDTHxDEPTH[xHEIGHT] in cm")
	cmd.Flags().StringArrayVarP(&flags.fixtures, "fixture", "f", nil, "fixture to place (repeatable)")
	cmd.Flags().StringArrayVar(&flags.doors, "door", nil, "door WALL:OFFSET:WIDTH (repeatable)")
	cmd.Flags().StringArrayVar(&flags.windows, "window", nil, "window WALL:OFFSET:WIDTH[:SILL] (repeatable)")

	// Search flags
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", opts.Strategy, "search strategy: beam (default), resample")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	cmd.Flags().IntVar(&opts.Attempts, "attempts", opts.Attempts, "placement attempts per pass")
	cmd.Flags().IntVar(&opts.Runs, "runs", opts.Runs, "independent runs (resample)")
	cmd.Flags().IntVar(&opts.BeamWidth, "beam-width", opts.BeamWidth, "partial layouts kept per step (beam)")
	cmd.Flags().IntVar(&opts.Expansions, "expansions", opts.Expansions, "children tried per partial layout (beam)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when no fixture can be placed")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	// Scoring flags
	cmd.Flags().BoolVar(&opts.Extended, "extended", false, "add the enclosed-space and opposite-wall criteria")
	cmd.Flags().StringToStringVarP(&flags.weights, "weight", "w", nil, "criterion weight for ranking, e.g. -w shadow=2")

	return cmd
}

// setCLIDefaults fills the flag defaults shown in --help.
func setCLIDefaults(opts *pipeline.Options) {
	opts.Strategy = pipeline.DefaultStrategy
	opts.Seed = pipeline.DefaultSeed
	opts.Attempts = pipeline.DefaultAttempts
	opts.Runs = pipeline.DefaultRuns
	opts.BeamWidth = pipeline.DefaultBeamWidth
	opts.Expansions = pipeline.DefaultExpansions
}

// runGenerate merges the request, runs the pipeline and writes the result.
func (c *CLI) runGenerate(cmd *cobra.Command, input string, flagOpts pipeline.Options, flags generateFlags) error {
	ctx := cmd.Context()
	opts, err := c.generateOptions(cmd, input, flagOpts, flags)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := startSpinner(ctx, fmt.Sprintf("Placing %d fixtures (%s)...", len(opts.Fixtures), opts.Strategy))

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if ferrors.Is(err, ferrors.ErrCodeInfeasible) {
			spin.fail("No fixture fits")
		} else {
			spin.fail("Search failed")
		}
		return err
	}
	if ctx.Err() != nil {
		spin.stop()
		return ctx.Err()
	}

	res := result.Search
	if res.Feasible() {
		spin.succeed("Layout found")
	} else {
		spin.stop()
		printWarning("No fixture could be placed in the %dx%d room", opts.Room.Width, opts.Room.Depth)
	}

	outputPath := generateOutputPath(input, flags.output)
	if err := writeJSONFile(outputPath, generatedFile{Result: result.Search, Analysis: result.Analysis}); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	printFile(outputPath)
	printStats(result.Stats.Requested, result.Stats.Placed, result.Stats.Candidates, result.CacheInfo.SearchHit)
	if len(res.Best.Unplaced) > 0 {
		printDetail("unplaced: %s", strings.Join(res.Best.Unplaced, ", "))
	}
	printNewline()
	if res.Feasible() {
		printObjects(res.Best.Layout)
		printBreakdown(res.Best.Score)
		printNewline()
	}
	printNextStep("Inspect free space", "fixturefit spaces "+outputPath)

	return nil
}

// generateOptions loads the request file, if any, and applies the flags
// that were set explicitly.
func (c *CLI) generateOptions(cmd *cobra.Command, input string, flagOpts pipeline.Options, flags generateFlags) (pipeline.Options, error) {
	opts := pipeline.Options{}
	if input != "" {
		loaded, err := pipeline.LoadRequest(input)
		if err != nil {
			return opts, fmt.Errorf("load request %s: %w", input, err)
		}
		opts = loaded
	}

	changed := cmd.Flags().Changed
	if flags.room != "" {
		room, err := parseRoom(flags.room)
		if err != nil {
			return opts, err
		}
		opts.Room = room
	}
	if len(flags.fixtures) > 0 {
		opts.Fixtures = flags.fixtures
	}
	if len(flags.doors) > 0 || len(flags.windows) > 0 {
		openings, err := parseOpenings(flags.doors, flags.windows)
		if err != nil {
			return opts, err
		}
		opts.Openings = openings
	}
	if changed("strategy") || opts.Strategy == "" {
		opts.Strategy = flagOpts.Strategy
	}
	if changed("seed") || opts.Seed == 0 {
		opts.Seed = flagOpts.Seed
	}
	if changed("extended") {
		opts.Extended = flagOpts.Extended
	}
	if len(flags.weights) > 0 {
		weights, err := parseWeights(flags.weights)
		if err != nil {
			return opts, err
		}
		opts.Weights = weights
	}
	opts.Attempts = flagOpts.Attempts
	opts.Runs = flagOpts.Runs
	opts.BeamWidth = flagOpts.BeamWidth
	opts.Expansions = flagOpts.Expansions
	opts.Strict = flagOpts.Strict
	opts.Refresh = flagOpts.Refresh

	if opts.Room.Width == 0 && opts.Room.Depth == 0 {
		return opts, ferrors.New(ferrors.ErrCodeInvalidRoom, "no room given: pass a request file or --room")
	}
	if len(opts.Fixtures) == 0 {
		return opts, ferrors.New(ferrors.ErrCodeInvalidInput, "no fixtures given: pass a request file or --fixture")
	}

	cat, err := c.loadCatalog()
	if err != nil {
		return opts, err
	}
	opts.Catalog = cat
	opts.Logger = c.Logger
	return opts, nil
}

// parseOpenings numbers doors and windows in flag order.
func parseOpenings(doors, windows []string) ([]geometry.Opening, error) {
	openings := make([]geometry.Opening, 0, len(doors)+len(windows))
	for i, s := range doors {
		o, err := parseOpening(geometry.KindDoor, fmt.Sprintf("door%d", i+1), s)
		if err != nil {
			return nil, err
		}
		openings = append(openings, o)
	}
	for i, s := range windows {
		o, err := parseOpening(geometry.KindWindow, fmt.Sprintf("window%d", i+1), s)
		if err != nil {
			return nil, err
		}
		openings = append(openings, o)
	}
	return openings, nil
}

func generateOutputPath(input, output string) string {
	if output != "" {
		return output
	}
	if input == "" {
		return "layout.json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// writeJSONFile writes v as indented JSON.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
