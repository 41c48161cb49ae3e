package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/gen"
	"github.com/matzehuels/homcount/pkg/graph"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// generateCommand creates the generate command and its subcommands.
func (c *CLI) generateCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate benchmark decompositions and target graphs",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	var (
		extra     int
		pathGraph bool
	)
	path := &cobra.Command{
		Use:   "path <n>",
		Short: "Nice decomposition of a path on n vertices",
		Long: `Write a width-1 nice tree decomposition of the path on n vertices.
With --extra k, add k introduce/forget pairs so that the decomposition has
more possible edges. With --graph, write the path itself as METIS.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intArg("n", args[0])
			if err != nil {
				return err
			}
			if pathGraph {
				g, err := gen.Path(n)
				if err != nil {
					return err
				}
				return c.emitGraph(output, g)
			}
			var t *ntd.NTD
			if extra > 0 {
				t, err = gen.PossibleEdgePath(n, extra)
			} else {
				t, err = gen.PathNTD(n)
			}
			if err != nil {
				return err
			}
			return c.emitNTD(output, t)
		},
	}
	path.Flags().IntVar(&extra, "extra", 0, "additional possible edges")
	path.Flags().BoolVar(&pathGraph, "graph", false, "write the path graph instead of its decomposition")

	complete := &cobra.Command{
		Use:   "complete <n>",
		Short: "Nice decomposition of the complete graph on n vertices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intArg("n", args[0])
			if err != nil {
				return err
			}
			t, err := gen.CompleteNTD(n)
			if err != nil {
				return err
			}
			return c.emitNTD(output, t)
		},
	}

	var seed uint64
	random := &cobra.Command{
		Use:   "random <n> <m>",
		Short: "Random graph with n vertices and m edges, loops allowed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intArg("n", args[0])
			if err != nil {
				return err
			}
			m, err := intArg("m", args[1])
			if err != nil {
				return err
			}
			g, err := gen.RandomGraph(n, m, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
			if err != nil {
				return err
			}
			return c.emitGraph(output, g)
		},
	}
	random.Flags().Uint64Var(&seed, "seed", 42, "random seed")

	cycle := &cobra.Command{
		Use:   "cycle <n>",
		Short: "Cycle on n vertices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intArg("n", args[0])
			if err != nil {
				return err
			}
			g, err := gen.Cycle(n)
			if err != nil {
				return err
			}
			return c.emitGraph(output, g)
		},
	}

	var loops bool
	clique := &cobra.Command{
		Use:   "clique <n>",
		Short: "Complete graph on n vertices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := intArg("n", args[0])
			if err != nil {
				return err
			}
			g, err := gen.Clique(n, loops)
			if err != nil {
				return err
			}
			return c.emitGraph(output, g)
		},
	}
	clique.Flags().BoolVar(&loops, "loops", false, "add a self-loop at every vertex")

	cmd.AddCommand(path, complete, random, cycle, clique)
	return cmd
}

func intArg(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, s)
	}
	return n, nil
}

func (c *CLI) emitNTD(output string, t *ntd.NTD) error {
	return c.emit(output, func(w io.Writer) error { return homio.WriteNTD(w, t) },
		fmt.Sprintf("decomposition with %d nodes, width %d", t.NodeCount(), t.Width()))
}

func (c *CLI) emitGraph(output string, g *graph.Graph) error {
	return c.emit(output, func(w io.Writer) error { return homio.WriteMETIS(w, g) },
		fmt.Sprintf("graph with %d vertices, %d edges", g.VertexCount(), g.EdgeCount()))
}

// emit writes to stdout, or to output with a status line.
func (c *CLI) emit(output string, write func(io.Writer) error, what string) error {
	if output == "" {
		return write(c.out)
	}
	f, err := os.Create(output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", output)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSuccess("Generated %s", what)
	printFile(output)
	return nil
}
