package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturefit/pkg/catalog"
)

// catalogCommand creates the catalog command listing fixture types.
func (c *CLI) catalogCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the fixture types that can be placed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cat.Types())
			}
			printCatalog(cat)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the catalog as JSON")

	return cmd
}

func printCatalog(cat *catalog.Catalog) {
	types := cat.Types()
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		placement := ""
		switch {
		case t.MustBeCorner:
			placement = "corner"
		case t.MustBeAgainstWall:
			placement = "wall"
		}
		rows = append(rows, []string{
			t.Name,
			rangeString(t.Width),
			rangeString(t.Depth),
			rangeString(t.Height),
			fmt.Sprintf("%d/%d/%d/%d", t.Clearance.Front, t.Clearance.Left, t.Clearance.Right, t.Clearance.Back),
			placement,
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Type", "Width", "Depth", "Height", "Clearance F/L/R/B", "Placement").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return StyleTitle.Padding(0, 1)
			}
			return styleCell
		})
	fmt.Fprintln(out, tbl.Render())
}

func rangeString(r catalog.Range) string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// printJSON writes v as indented JSON to the command output.
func printJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
