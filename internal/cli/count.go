package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/hom"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/pipeline"
)

// runFlags are the flags shared by count, classes and brute.
type runFlags struct {
	format     string
	output     string
	workers    int
	trackEdges bool
	deferredGC bool
	refresh    bool
	noCache    bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: text (default), json, yaml, csv")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the result to a file instead of stdout")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel workers for the inner loops (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&f.deferredGC, "deferred-gc", false, "free child tables in a batch after each level")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
}

// options merges the config file with the flags that were set.
func (c *CLI) options(cmd *cobra.Command, f *runFlags, mode string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Mode:       mode,
		Workers:    c.Config.Workers,
		TrackEdges: c.Config.TrackEdges,
		DeferredGC: c.Config.DeferredGC,
		Refresh:    f.refresh,
		Logger:     c.Logger,
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	if cmd.Flags().Changed("track-edges") {
		opts.TrackEdges = f.trackEdges
	}
	if cmd.Flags().Changed("deferred-gc") {
		opts.DeferredGC = f.deferredGC
	}
	if f.format == "" {
		f.format = c.Config.Format
	}
	if err := errors.ValidateChoice("format", f.format, outputFormats); err != nil {
		return opts, err
	}
	ttl, err := c.Config.Cache.ttl()
	if err != nil {
		return opts, err
	}
	opts.TTL = ttl
	return opts, errors.ValidateWorkers(opts.Workers)
}

// countCommand creates the count command.
func (c *CLI) countCommand() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "count <decomposition.ntd> <pattern> <target.graph>",
		Short: "Count homomorphisms from a pattern into a target",
		Long: `Count homomorphisms from a pattern graph into a target graph.

The pattern is a METIS file or an inline edge list such as "5: 0-1 1-3 1-2 2-4".
The decomposition must be a nice tree decomposition of the pattern.`,
		Example: `  homcount count tree.ntd "5: 0-1 1-3 1-2 2-4" k5.graph
  homcount count tree.ntd tree.graph k5.graph --format json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &f, pipeline.ModeCount)
			if err != nil {
				return err
			}
			opts.Decomposition, opts.Pattern, opts.Target = args[0], args[1], args[2]
			res, err := c.execute(cmd.Context(), opts, f.noCache, "Counting homomorphisms")
			if err != nil {
				return err
			}
			return c.writeResult(res, &f)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.trackEdges, "track-edges", false, "run the edge-subset recurrences and report the edge universe")
	return cmd
}

// classesCommand creates the classes command.
func (c *CLI) classesCommand() *cobra.Command {
	var (
		f      runFlags
		browse bool
	)
	cmd := &cobra.Command{
		Use:   "classes <decomposition.ntd> <target.graph>",
		Short: "Count homomorphisms for every subgraph of a decomposition",
		Long: `Count homomorphisms into the target for every spanning subgraph whose
edges the decomposition can cover, in one pass over the decomposition.`,
		Example: `  homcount classes tree.ntd k5.graph
  homcount classes tree.ntd k5.graph --browse`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &f, pipeline.ModeClasses)
			if err != nil {
				return err
			}
			if browse && !interactive() {
				return errors.New(errors.ErrCodeInvalidInput, "--browse needs an interactive terminal")
			}
			opts.Decomposition, opts.Target = args[0], args[1]
			res, err := c.execute(cmd.Context(), opts, f.noCache, "Counting classes")
			if err != nil {
				return err
			}
			if browse {
				return c.browse(cmd.Context(), res)
			}
			return c.writeResult(res, &f)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&browse, "browse", false, "browse the classes interactively")
	return cmd
}

// bruteCommand creates the brute command.
func (c *CLI) bruteCommand() *cobra.Command {
	var (
		f             runFlags
		decomposition string
	)
	cmd := &cobra.Command{
		Use:   "brute [pattern] <target.graph>",
		Short: "Count homomorphisms by enumerating every vertex map",
		Long: `Count homomorphisms by trying every map from pattern vertices to target
vertices. With --decomposition and no pattern, count every class of the
decomposition's edge universe instead. Intended as a reference for small
inputs.`,
		Example: `  homcount brute "3: 0-1 1-2 0-2" c4.graph
  homcount brute --decomposition tree.ntd k5.graph`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &f, pipeline.ModeBrute)
			if err != nil {
				return err
			}
			opts.Decomposition = decomposition
			opts.Target = args[len(args)-1]
			if len(args) == 2 {
				opts.Pattern = args[0]
			}
			res, err := c.execute(cmd.Context(), opts, f.noCache, "Enumerating vertex maps")
			if err != nil {
				return err
			}
			return c.writeResult(res, &f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&decomposition, "decomposition", "d", "", "decomposition whose classes to count")
	return cmd
}

// execute runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, opts pipeline.Options, noCache bool, msg string) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	ph := newPhase(loggerFromContext(ctx))
	sp := startSpinner(ctx, msg)
	res, err := runner.Execute(ctx, opts)
	sp.halt()
	if err != nil {
		if sp.interrupted() {
			printWarning("%s interrupted", opts.Mode)
		}
		return nil, err
	}
	if res.CacheInfo.Hit {
		ph.done("Loaded "+opts.Mode+" result from cache", "key", res.CacheInfo.Key)
	} else {
		ph.done("Finished "+opts.Mode, "nodes", res.Stats.Nodes)
	}
	return res, nil
}

// browse opens the class browser and prints the class picked with enter.
func (c *CLI) browse(ctx context.Context, res *pipeline.Result) error {
	final, err := tea.NewProgram(newClassListModel(res.Classes), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(ClassListModel)
	if !ok || m.Selected == nil {
		return nil
	}
	picked := *res
	picked.Classes = []hom.Class{*m.Selected}
	return writeText(c.out, &picked)
}

// writeResult writes res to stdout or the --output file.
func (c *CLI) writeResult(res *pipeline.Result, f *runFlags) error {
	w := c.out
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", f.output)
		}
		defer file.Close()
		w = file
	}
	var err error
	switch f.format {
	case formatText:
		err = writeText(w, res)
	case homio.FormatCSV:
		err = homio.WriteCSV(w, resultTable{res})
	default:
		err = homio.Write(w, f.format, res)
	}
	if err != nil {
		return err
	}
	if f.output != "" {
		printSuccess("Wrote %s result", res.Mode)
		printFile(f.output)
	}
	return nil
}

// writeText prints a result for people.
func writeText(w io.Writer, res *pipeline.Result) error {
	if res.Classes == nil {
		fmt.Fprintln(w, StyleNumber.Render(strconv.FormatUint(res.Count, 10)))
	} else {
		for _, cl := range res.Classes {
			fmt.Fprintf(w, "%-8s %s  %s\n",
				StyleDim.Render(fmt.Sprintf("#%d", cl.Mask)),
				StyleNumber.Render(strconv.FormatUint(cl.Count, 10)),
				StyleValue.Render(homio.FormatEdgeList(cl.Graph)))
		}
	}
	s := res.Stats
	var parts []string
	if s.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", s.Nodes), fmt.Sprintf("width %d", s.Width))
	}
	if s.PossibleEdges > 0 {
		parts = append(parts, fmt.Sprintf("%d possible edges", s.PossibleEdges))
	}
	if res.Classes != nil {
		parts = append(parts, fmt.Sprintf("%d classes", len(res.Classes)))
	}
	parts = append(parts, fmt.Sprintf("target %dv/%de", s.TargetVertices, s.TargetEdges))
	writeStats(status, parts, res.CacheInfo.Hit)
	return nil
}

// resultTable writes a result as CSV. Classes become one row each.
type resultTable struct {
	*pipeline.Result
}

func (r resultTable) Header() []string {
	if r.Classes != nil {
		return []string{"mask", "edges", "count"}
	}
	return []string{"mode", "count", "nodes", "width", "possible_edges", "target_vertices", "target_edges", "cached"}
}

func (r resultTable) Rows() [][]string {
	if r.Classes != nil {
		return classRows(r.Classes)
	}
	s := r.Stats
	return [][]string{{
		r.Mode,
		strconv.FormatUint(r.Count, 10),
		strconv.Itoa(s.Nodes),
		strconv.Itoa(s.Width),
		strconv.Itoa(s.PossibleEdges),
		strconv.Itoa(s.TargetVertices),
		strconv.Itoa(s.TargetEdges),
		strconv.FormatBool(r.CacheInfo.Hit),
	}}
}

func classRows(classes []hom.Class) [][]string {
	rows := make([][]string, len(classes))
	for i, cl := range classes {
		rows[i] = []string{
			strconv.FormatUint(cl.Mask, 10),
			homio.FormatEdgeList(cl.Graph),
			strconv.FormatUint(cl.Count, 10),
		}
	}
	return rows
}
