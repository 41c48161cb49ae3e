// Package fixtures embeds the decompositions and graphs shared by tests.
package fixtures

import (
	"bytes"
	"embed"
	"io"
	"path"
)

//go:embed data
var files embed.FS

// Pair is a pattern/target combination with a known homomorphism count.
type Pair struct {
	Name          string
	Decomposition string // .ntd fixture
	Pattern       string // METIS fixture of the pattern graph
	Target        string // METIS fixture of the target graph
	Want          uint64
}

// Pairs lists every end-to-end scenario.
var Pairs = []Pair{
	{Name: "tree into K5", Decomposition: "example_2.ntd", Pattern: "tree_a.graph", Target: "k5.graph", Want: 1280},
	{Name: "path into C4", Decomposition: "example_2.ntd", Pattern: "path_b.graph", Target: "c4.graph", Want: 256},
	{Name: "triangle into C4", Decomposition: "example_3.ntd", Pattern: "triangle_c.graph", Target: "c4.graph", Want: 0},
	{Name: "pendant triangle into K5", Decomposition: "example_4.ntd", Pattern: "pendant_d.graph", Target: "k5.graph", Want: 960},
}

// Bytes returns the content of a fixture file. It panics if name is unknown.
func Bytes(name string) []byte {
	data, err := files.ReadFile(path.Join("data", name))
	if err != nil {
		panic(err)
	}
	return data
}

// Reader returns a reader over a fixture file.
func Reader(name string) io.Reader {
	return bytes.NewReader(Bytes(name))
}

// Names returns all fixture file names.
func Names() []string {
	entries, err := files.ReadDir("data")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
