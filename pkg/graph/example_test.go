package graph_test

import (
	"fmt"

	"github.com/matzehuels/homcount/pkg/graph"
)

func ExampleBuilder() {
	b := graph.NewBuilder(4)
	_ = b.AddEdge(0, 1)
	_ = b.AddEdge(1, 2)
	_ = b.AddEdge(2, 3)
	_ = b.AddEdge(3, 0)
	_ = b.AddEdge(1, 0) // duplicate, ignored
	g := b.Build()

	fmt.Println(g)
	fmt.Println("edges:", g.EdgeCount())
	fmt.Println("neighbors of 0:", g.Neighbors(0))
	// Output:
	// 4: 0-1 0-3 1-2 2-3
	// edges: 4
	// neighbors of 0: [1 3]
}
