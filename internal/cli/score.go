package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturefit/pkg/pipeline"
)

// scoreCommand creates the score command for re-evaluating a saved layout.
func (c *CLI) scoreCommand() *cobra.Command {
	var (
		requested []string
		weights   map[string]string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "score [layout.json]",
		Short: "Score an existing layout",
		Long: `Score an existing layout.

Accepts a bare layout or a file written by 'generate', whose best candidate is
scored. By default the fixtures in the layout count as requested; pass
--requested to score against a different wish list, so that missing fixtures
lower the requested-objects criterion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWeights(weights)
			if err != nil {
				return err
			}
			opts.Weights = w
			return c.runScore(args[0], requested, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&requested, "requested", "r", nil, "requested fixtures (default: the layout's own)")
	cmd.Flags().BoolVar(&opts.Extended, "extended", false, "add the enclosed-space and opposite-wall criteria")
	cmd.Flags().StringToStringVarP(&weights, "weight", "w", nil, "criterion weight for the weighted rank, e.g. -w shadow=2")

	return cmd
}

func (c *CLI) runScore(input string, requested []string, opts pipeline.Options) error {
	l, err := pipeline.LoadLayout(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	prog := newProgress(c.Logger)
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	opts.Logger = c.Logger
	s, err := runner.Score(l, requested, opts)
	if err != nil {
		return err
	}
	prog.done("scored layout", "objects", len(l.Objects))

	printSuccess("Scored %s", input)
	if requested != nil {
		printDetail("requested: %s", strings.Join(requested, ", "))
	}
	printNewline()
	printBreakdown(s)
	if len(opts.Weights) > 0 {
		printKeyValue("Weighted", StyleNumber.Render(fmt.Sprintf("%.1f", s.Weighted(opts.Weights))))
	}
	printKeyValue("Pathways", fmt.Sprintf("%d/%d reachable", s.Pathways.Reached, s.Pathways.Total))
	return nil
}
