package io

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
)

type edgeListExpr struct {
	Items []*edgeItem `( @@ ","? )*`
}

// edgeItem is "u", "u-v", or the size prefix "n:".
type edgeItem struct {
	Pos  lexer.Position
	From int  `@Int`
	To   *int `( "-" @Int`
	Size bool `| @":" )?`
}

var edgeListLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[-:,]`},
	{Name: "whitespace", Pattern: `\s+`},
})

var edgeListParser = participle.MustBuild[edgeListExpr](
	participle.Lexer(edgeListLexer),
)

// ParseEdgeList parses an edge-list expression such as "5: 0-1 1-2 2-2".
// Without a size prefix the vertex count is one past the largest vertex.
func ParseEdgeList(s string) (*graph.Graph, error) {
	expr, err := edgeListParser.ParseString("", s)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "edge list %q", s)
	}

	n := -1
	highest := -1
	for i, it := range expr.Items {
		if it.Size {
			if i != 0 {
				return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
					"edge list %q: vertex count must come first (column %d)", s, it.Pos.Column)
			}
			n = it.From
			continue
		}
		highest = max(highest, it.From)
		if it.To != nil {
			highest = max(highest, *it.To)
		}
	}
	if n < 0 {
		n = highest + 1
	} else if highest >= n {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
			"edge list %q: vertex %d outside 0..%d", s, highest, n-1)
	}

	b := graph.NewBuilder(n)
	for _, it := range expr.Items {
		if it.Size || it.To == nil {
			continue
		}
		if err := b.AddEdge(it.From, *it.To); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "edge list %q", s)
		}
	}
	return b.Build(), nil
}

// FormatEdgeList renders g as an edge-list expression accepted by
// [ParseEdgeList].
func FormatEdgeList(g *graph.Graph) string {
	return g.String()
}
