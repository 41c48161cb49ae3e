package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/bench"
	"github.com/matzehuels/homcount/pkg/errors"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// infoReport is the structured form of one decomposition's statistics.
type infoReport struct {
	bench.Description `yaml:",inline"`

	Order    []ntd.NodeID `json:"order" yaml:"order"`
	Problems []string     `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		format string
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "info <decomposition.ntd>...",
		Short: "Describe nice tree decompositions",
		Long: `Print the width, node count, vertex count, possible-edge count, branch
number and stingy traversal order of each decomposition.

With --check, also verify that every node follows the niceness rules and
exit with an error if one does not.`,
		Example: `  homcount info tree.ntd --check
  homcount info data/*.ntd --format csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = c.Config.Format
			}
			if err := errors.ValidateChoice("format", format, outputFormats); err != nil {
				return err
			}

			reports := make([]infoReport, 0, len(args))
			bad := 0
			for _, path := range args {
				t, err := homio.ImportNTD(path)
				if err != nil {
					return err
				}
				r := infoReport{
					Description: bench.Describe(filepath.Base(path), t),
					Order:       ntd.StingyOrder(t),
				}
				if check {
					for _, p := range ntd.Check(t) {
						r.Problems = append(r.Problems, p.String())
					}
					if len(r.Problems) > 0 {
						bad++
					}
				}
				reports = append(reports, r)
			}

			if err := c.writeInfo(format, reports, check); err != nil {
				return err
			}
			if bad > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%d of %d decompositions are not nice", bad, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text (default), json, yaml, csv")
	cmd.Flags().BoolVar(&check, "check", false, "verify the niceness rules")
	return cmd
}

func (c *CLI) writeInfo(format string, reports []infoReport, check bool) error {
	switch format {
	case formatText:
	case homio.FormatCSV:
		ds := make(bench.Descriptions, len(reports))
		for i, r := range reports {
			ds[i] = r.Description
		}
		return homio.WriteCSV(c.out, ds)
	default:
		return homio.Write(c.out, format, reports)
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(c.out)
		}
		fmt.Fprintln(c.out, StyleTitle.Render(r.Name))
		writeKeyValue(c.out, "width", strconv.Itoa(r.Width))
		writeKeyValue(c.out, "nodes", strconv.Itoa(r.Nodes))
		writeKeyValue(c.out, "vertices", strconv.Itoa(r.Vertices))
		possible := strconv.Itoa(r.PossibleEdges)
		if r.PossibleEdges < 0 {
			possible = fmt.Sprintf("more than %d", errors.MaxPossibleEdges)
		}
		writeKeyValue(c.out, "possible edges", possible)
		writeKeyValue(c.out, "joins", strconv.Itoa(r.Joins))
		writeKeyValue(c.out, "leaves", strconv.Itoa(r.Leaves))
		writeKeyValue(c.out, "branch number", strconv.Itoa(r.BranchNumber))
		writeKeyValue(c.out, "peak tables", strconv.Itoa(r.PeakLiveTables))
		writeKeyValue(c.out, "order", formatOrder(r.Order))

		if !check {
			continue
		}
		if len(r.Problems) == 0 {
			printSuccess("%s is nice", r.Name)
			continue
		}
		for _, p := range r.Problems {
			printWarning("%s", p)
		}
	}
	return nil
}

// formatOrder renders node ids 1-indexed, matching the file format.
func formatOrder(order []ntd.NodeID) string {
	parts := make([]string, len(order))
	for i, p := range order {
		parts[i] = strconv.Itoa(int(p) + 1)
	}
	return strings.Join(parts, " ")
}
