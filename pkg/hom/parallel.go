package hom

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/intfunc"
)

// cellFunc computes one table entry: the count for mapping f under the i-th
// mask of the node.
type cellFunc func(i int, f intfunc.Mapping) (uint64, error)

// fill evaluates cell for every (mask, mapping) pair of a node. With more
// than one worker the pairs are cut into contiguous chunks; each worker
// writes a private slice and the slices are merged after all have finished.
// Child tables are only read while workers run. A failing worker stops
// its siblings; cancellation of ctx does not interrupt a node.
func (e *Engine) fill(ctx context.Context, masks []edges.Mask, size uint64, cell cellFunc) (table, error) {
	out := make(table, len(masks))
	for _, m := range masks {
		out[m] = make([]uint64, size)
	}

	total := uint64(len(masks)) * size
	if e.workers < 2 || total < e.minParallel {
		for i, m := range masks {
			dst := out[m]
			for f := range size {
				v, err := cell(i, f)
				if err != nil {
					return nil, err
				}
				dst[f] = v
			}
		}
		return out, nil
	}

	workers := uint64(e.workers)
	chunk := (total + workers - 1) / workers
	parts := make([][]uint64, workers)

	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	for k := range workers {
		lo := k * chunk
		hi := min(lo+chunk, total)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			part := make([]uint64, hi-lo)
			for idx := lo; idx < hi; idx++ {
				if (idx-lo)%4096 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				v, err := cell(int(idx/size), idx%size)
				if err != nil {
					return err
				}
				part[idx-lo] = v
			}
			parts[k] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for k, part := range parts {
		lo := uint64(k) * chunk
		for j, v := range part {
			idx := lo + uint64(j)
			out[masks[idx/size]][idx%size] = v
		}
	}
	e.logger.Debug("parallel fill", "cells", total, "workers", workers, "chunk", chunk)
	return out, nil
}
