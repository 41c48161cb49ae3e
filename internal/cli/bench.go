package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/bench"
	"github.com/matzehuels/homcount/pkg/errors"
	homio "github.com/matzehuels/homcount/pkg/io"
)

// benchOpts holds the command-line flags for the bench command.
type benchOpts struct {
	decompositions string
	targets        string
	repetitions    int
	workers        int
	algorithms     []string
	output         string
	store          string
	noStore        bool
}

// benchCommand creates the bench command, which times the algorithms over
// the pairs marked in a CSV matrix.
func (c *CLI) benchCommand() *cobra.Command {
	var opts benchOpts

	cmd := &cobra.Command{
		Use:   "bench <matrix.csv>",
		Short: "Time the counting algorithms over a decomposition/target matrix",
		Long: `Time the counting algorithms over every pair marked 1 in a CSV matrix.
The header row names target graphs, the first column names decompositions.

Records are printed as CSV and saved in the configured store under one run id.`,
		Example: `  homcount bench matrix.csv --decompositions data/ntd --targets data/graphs
  homcount bench matrix.csv -r 10 -a classes -o timings.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("repetitions") {
				opts.repetitions = c.Config.Bench.Repetitions
			}
			if opts.store == "" {
				opts.store = c.Config.Bench.Store
			}
			for _, a := range opts.algorithms {
				if err := errors.ValidateChoice("algorithm", a, bench.Algorithms); err != nil {
					return err
				}
			}
			return c.runBench(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.decompositions, "decompositions", ".", "directory of the .ntd files named in the matrix")
	cmd.Flags().StringVar(&opts.targets, "targets", ".", "directory of the target graphs named in the matrix")
	cmd.Flags().IntVarP(&opts.repetitions, "repetitions", "r", bench.DefaultRepetitions, "timed runs per algorithm and pair")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel workers for the engine")
	cmd.Flags().StringSliceVarP(&opts.algorithms, "algorithm", "a", nil,
		"algorithms to time: "+strings.Join(bench.Algorithms, ", ")+" (default classes,count-each)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the records as CSV to a file")
	cmd.Flags().StringVar(&opts.store, "store", "", "record store: file, mongo (default from config)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "do not save the records")

	cmd.AddCommand(c.benchListCommand())
	return cmd
}

func (c *CLI) runBench(ctx context.Context, matrixPath string, opts *benchOpts) error {
	m, err := bench.ImportMatrix(matrixPath)
	if err != nil {
		return err
	}

	var store bench.Store
	if !opts.noStore {
		if store, err = c.openStore(ctx, opts.store); err != nil {
			return err
		}
		defer store.Close()
	}

	h := &bench.Harness{
		Repetitions: opts.repetitions,
		Workers:     opts.workers,
		Algorithms:  opts.algorithms,
		Logger:      c.Logger,
		OnRecord: func(r bench.Record) {
			printDetail("%-12s %s × %s  %s", r.Algorithm, r.Decomposition, r.Target, r.Mean.Round(time.Microsecond))
		},
	}

	ph := newPhase(c.Logger)
	records, err := h.Run(ctx, m, bench.Dirs{Decompositions: opts.decompositions, Targets: opts.targets})
	if store != nil && len(records) > 0 {
		if serr := store.Save(ctx, records); serr != nil {
			return errors.Wrap(errors.ErrCodeStorage, serr, "save %d records", len(records))
		}
	}
	if err != nil {
		return err
	}
	ph.done("Measured matrix", "pairs", len(m.Pairs()), "records", len(records))

	if opts.output != "" {
		if err := homio.Export(opts.output, homio.FormatCSV, bench.Records(records)); err != nil {
			return err
		}
		printFile(opts.output)
	} else if err := bench.WriteCSV(c.out, records); err != nil {
		return err
	}
	if len(records) > 0 {
		printSuccess("Run %s", records[0].RunID)
		printNextStep("List it again with", "homcount bench list "+records[0].RunID)
	}
	return nil
}

// benchListCommand creates the "bench list" subcommand.
func (c *CLI) benchListCommand() *cobra.Command {
	var (
		store  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "list [run-id]",
		Short: "Print stored benchmark records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if store == "" {
				store = c.Config.Bench.Store
			}
			if err := errors.ValidateChoice("format", format, homio.Formats); err != nil {
				return err
			}
			s, err := c.openStore(cmd.Context(), store)
			if err != nil {
				return err
			}
			defer s.Close()

			var runID string
			if len(args) == 1 {
				runID = args[0]
			}
			records, err := s.List(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if format == homio.FormatCSV {
				return bench.WriteCSV(c.out, records)
			}
			return homio.Write(c.out, format, records)
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "record store: file, mongo (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", homio.FormatCSV, "output format: csv, json, yaml")
	return cmd
}

// openStore opens the named record store with the [bench] settings.
func (c *CLI) openStore(ctx context.Context, backend string) (bench.Store, error) {
	if err := errors.ValidateChoice("bench store", backend, bench.Stores); err != nil {
		return nil, err
	}
	return bench.OpenStore(ctx, bench.StoreConfig{
		Backend: backend,
		Dir:     c.Config.Bench.Dir,
		Mongo: bench.MongoConfig{
			URI:      c.Config.Bench.MongoURI,
			Database: c.Config.Bench.MongoDB,
		},
	})
}
