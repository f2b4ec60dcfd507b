package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturefit/pkg/pipeline"
	"github.com/matzehuels/fixturefit/pkg/space"
)

// spacesCommand creates the spaces command for free-floor analysis.
func (c *CLI) spacesCommand() *cobra.Command {
	opts := pipeline.Options{}
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "spaces [layout.json]",
		Short: "List the free floor of a layout",
		Long: `List the free floor of a layout.

Free space is reported twice: outside the fixtures' clearance shadows and
outside their footprints only. Shadow-free spaces no person can walk into from
a door through a corridor of --min-path cm are flagged as inaccessible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSpaces(args[0], opts, jsonOut)
		},
	}

	cmd.Flags().IntVar(&opts.GridSize, "grid", pipeline.DefaultGridSize, "cell size (cm) of the space analysis")
	cmd.Flags().IntVar(&opts.PathGrid, "path-grid", pipeline.DefaultPathGrid, "cell size (cm) of the reachability analysis")
	cmd.Flags().IntVar(&opts.MinPathWidth, "min-path", pipeline.DefaultMinPathWidth, "corridor width (cm) a person needs")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the analysis as JSON")

	return cmd
}

func (c *CLI) runSpaces(input string, opts pipeline.Options, jsonOut bool) error {
	l, err := pipeline.LoadLayout(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	prog := newProgress(c.Logger)
	a := pipeline.Analyze(l, opts)
	prog.done("analyzed free space", "grid", opts.GridSize)

	if jsonOut {
		return printJSON(a)
	}

	printRects("Free space", a.Spaces.WithShadow)
	printDetail("%d cm² outside clearance shadows", space.Area(a.Spaces.WithShadow))
	printRects("Free floor", a.Spaces.WithoutShadow)
	printDetail("%d cm² outside footprints", space.Area(a.Spaces.WithoutShadow))
	printNewline()
	if a.Access.AllAccessible() {
		printSuccess("Every free space is reachable from a door")
		return nil
	}
	printRects("Inaccessible", a.Access.Inaccessible)
	printWarning("%d of %d free spaces cannot be reached", len(a.Access.Inaccessible), len(a.Access.Inaccessible)+len(a.Access.Accessible))
	return nil
}
