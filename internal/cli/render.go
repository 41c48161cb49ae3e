package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/errors"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
	"github.com/matzehuels/homcount/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; stdout when empty
	format   string // dot, svg or png
	detailed bool   // node ids, steps and possible edges in labels
}

// renderCommand creates the render command for drawing decompositions and
// graphs with Graphviz.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: render.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <decomposition.ntd|graph>",
		Short: "Draw a decomposition or a graph as DOT, SVG or PNG",
		Long: `Draw a nice tree decomposition as a rooted tree of bags, or a METIS graph.
Files ending in .ntd are read as decompositions, everything else as METIS.`,
		Example: `  homcount render tree.ntd -o tree.svg
  homcount render tree.ntd --detailed --format dot
  homcount render k5.graph --format png -o k5.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateChoice("format", opts.format, render.Formats); err != nil {
				return err
			}
			if opts.format == render.FormatPNG && opts.output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "png output needs --output")
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with ids, traversal steps and possible edges")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts *renderOpts) error {
	dot, err := dotFor(path, opts.detailed)
	if err != nil {
		return err
	}
	data, err := render.Render(ctx, dot, opts.format)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", opts.output)
	}
	printSuccess("Rendered %s", filepath.Base(path))
	printFile(opts.output)
	return nil
}

// dotFor reads path and converts it to DOT.
func dotFor(path string, detailed bool) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".ntd") {
		g, err := homio.ImportMETIS(path)
		if err != nil {
			return "", err
		}
		return render.GraphDOT(g), nil
	}

	t, err := homio.ImportNTD(path)
	if err != nil {
		return "", err
	}
	ro := render.Options{Detailed: detailed}
	if detailed {
		ro.Order = ntd.StingyOrder(t)
		// Universes too wide for a mask are drawn without edge labels.
		if u, err := edges.Build(t, ro.Order); err == nil {
			ro.Universe = u
		}
	}
	return render.DecompositionDOT(t, ro), nil
}
