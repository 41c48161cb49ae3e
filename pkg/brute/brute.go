// Package brute counts homomorphisms by trying every vertex map. It is
// exponential in the pattern size and serves as a reference for package hom.
package brute

import (
	"context"

	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/hom"
	"github.com/matzehuels/homcount/pkg/intfunc"
)

// checkEvery is how many candidate maps are tried between context checks.
const checkEvery = 1 << 16

// Count returns Hom(h, g) by enumerating all |V(g)|^|V(h)| maps. Vertex i of
// h is digit i of the candidate.
func Count(ctx context.Context, h, g *graph.Graph) (uint64, error) {
	codec := intfunc.New(g.VertexCount())
	total, err := intfunc.CheckedCount(uint64(h.VertexCount()), codec.Base())
	if err != nil {
		return 0, err
	}
	es := h.Edges()

	var count uint64
	for f := range total {
		if f%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		ok := true
		for _, e := range es {
			if !g.HasEdge(int(codec.Digit(f, e.U)), int(codec.Digit(f, e.V))) {
				ok = false
				break
			}
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// Classes runs [Count] for every spanning subgraph of u on vertexCount
// vertices and returns the results in mask order.
func Classes(ctx context.Context, u *edges.Universe, vertexCount int, g *graph.Graph) ([]hom.Class, error) {
	full := u.Full()
	out := make([]hom.Class, 0, 1<<min(u.Len(), 20))
	for m := edges.Mask(0); ; m++ {
		h := u.Graph(m, vertexCount)
		n, err := Count(ctx, h, g)
		if err != nil {
			return nil, err
		}
		out = append(out, hom.Class{Mask: m, Graph: h, Count: n})
		if m == full {
			break
		}
	}
	return out, nil
}
