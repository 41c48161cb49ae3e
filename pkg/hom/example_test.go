package hom_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/hom"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// edgeDecomposition decomposes a graph on vertices {0, 1}.
func edgeDecomposition() *ntd.NTD {
	b := ntd.NewBuilder(2)
	_ = b.AddNode(0, ntd.Leaf, []ntd.Vertex{0})
	_ = b.AddNode(1, ntd.Introduce, []ntd.Vertex{0, 1})
	_ = b.AddNode(2, ntd.Forget, []ntd.Vertex{1})
	_ = b.AddNode(3, ntd.Forget, nil)
	_ = b.AddChild(1, 0)
	_ = b.AddChild(2, 1)
	_ = b.AddChild(3, 2)
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func triangle() *graph.Graph {
	return graph.MustNew(3, graph.Edge{U: 0, V: 1}, graph.Edge{U: 1, V: 2}, graph.Edge{U: 0, V: 2})
}

func ExampleEngine_Count() {
	e, err := hom.New(edgeDecomposition(), triangle())
	if err != nil {
		panic(err)
	}

	n, err := e.Count(context.Background(), graph.MustNew(2, graph.Edge{U: 0, V: 1}))
	if err != nil {
		panic(err)
	}
	fmt.Println("edge into triangle:", n)
	// Output:
	// edge into triangle: 6
}

func ExampleEngine_Classes() {
	e, err := hom.New(edgeDecomposition(), triangle())
	if err != nil {
		panic(err)
	}

	classes, err := e.Classes(context.Background())
	if err != nil {
		panic(err)
	}
	for _, c := range classes {
		fmt.Printf("%03b %d %s\n", c.Mask, c.Count, c.Graph)
	}
	// Output:
	// 000 9 2:
	// 001 0 2: 0-0
	// 010 6 2: 0-1
	// 011 0 2: 0-0 0-1
	// 100 0 2: 1-1
	// 101 0 2: 0-0 1-1
	// 110 0 2: 0-1 1-1
	// 111 0 2: 0-0 0-1 1-1
}
