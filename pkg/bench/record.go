package bench

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/homcount/pkg/edges"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// Record is the measurement of one algorithm on one pair.
type Record struct {
	RunID          string          `json:"run_id" bson:"run_id"`
	Algorithm      string          `json:"algorithm" bson:"algorithm"`
	Decomposition  string          `json:"decomposition" bson:"decomposition"`
	Width          int             `json:"width" bson:"width"`
	Nodes          int             `json:"nodes" bson:"nodes"`
	PossibleEdges  int             `json:"possible_edges" bson:"possible_edges"`
	Vertices       int             `json:"vertices" bson:"vertices"`
	Target         string          `json:"target" bson:"target"`
	TargetVertices int             `json:"target_vertices" bson:"target_vertices"`
	TargetEdges    int             `json:"target_edges" bson:"target_edges"`
	Durations      []time.Duration `json:"durations" bson:"durations"`
	Mean           time.Duration   `json:"mean" bson:"mean"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
}

// Records implements [homio.Tabular]. Durations are written in milliseconds
// and the mean in microseconds.
type Records []Record

func (rs Records) Header() []string {
	return []string{
		"run_id", "algorithm", "decomposition", "width", "nodes", "possible_edges", "vertices",
		"target", "target_vertices", "target_edges", "durations_ms", "mean_us",
	}
}

func (rs Records) Rows() [][]string {
	rows := make([][]string, len(rs))
	for i, r := range rs {
		ms := make([]string, len(r.Durations))
		for j, d := range r.Durations {
			ms[j] = strconv.FormatInt(d.Milliseconds(), 10)
		}
		rows[i] = []string{
			r.RunID, r.Algorithm, r.Decomposition,
			strconv.Itoa(r.Width), strconv.Itoa(r.Nodes), strconv.Itoa(r.PossibleEdges), strconv.Itoa(r.Vertices),
			r.Target, strconv.Itoa(r.TargetVertices), strconv.Itoa(r.TargetEdges),
			strings.Join(ms, " "), strconv.FormatInt(r.Mean.Microseconds(), 10),
		}
	}
	return rows
}

// WriteCSV writes records as CSV.
func WriteCSV(w io.Writer, records []Record) error {
	return homio.WriteCSV(w, Records(records))
}

func mean(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

// Description summarizes a decomposition.
type Description struct {
	Name           string `json:"name" yaml:"name"`
	Width          int    `json:"width" yaml:"width"`
	Nodes          int    `json:"nodes" yaml:"nodes"`
	PossibleEdges  int    `json:"possible_edges" yaml:"possible_edges"`
	Vertices       int    `json:"vertices" yaml:"vertices"`
	BranchNumber   int    `json:"branch_number" yaml:"branch_number"`
	PeakLiveTables int    `json:"peak_live_tables" yaml:"peak_live_tables"`
	Joins          int    `json:"joins" yaml:"joins"`
	Leaves         int    `json:"leaves" yaml:"leaves"`
}

// Describe computes the statistics of t. The possible-edge count is -1 when
// the universe does not fit a mask.
func Describe(name string, t *ntd.NTD) Description {
	order := ntd.StingyOrder(t)
	d := Description{
		Name:           name,
		Width:          t.Width(),
		Nodes:          t.NodeCount(),
		PossibleEdges:  -1,
		Vertices:       t.VertexCount(),
		BranchNumber:   ntd.BranchNumber(t),
		PeakLiveTables: ntd.PeakLiveTables(t, order),
	}
	if u, err := edges.Build(t, order); err == nil {
		d.PossibleEdges = u.Len()
	}
	for _, p := range t.Nodes() {
		switch t.Type(p) {
		case ntd.Join:
			d.Joins++
		case ntd.Leaf:
			d.Leaves++
		}
	}
	return d
}

// Descriptions implements [homio.Tabular].
type Descriptions []Description

func (ds Descriptions) Header() []string {
	return []string{"name", "width", "nodes", "possible_edges", "vertices", "branch_number", "peak_live_tables", "joins", "leaves"}
}

func (ds Descriptions) Rows() [][]string {
	rows := make([][]string, len(ds))
	for i, d := range ds {
		rows[i] = []string{
			d.Name, strconv.Itoa(d.Width), strconv.Itoa(d.Nodes), strconv.Itoa(d.PossibleEdges),
			strconv.Itoa(d.Vertices), strconv.Itoa(d.BranchNumber), strconv.Itoa(d.PeakLiveTables),
			strconv.Itoa(d.Joins), strconv.Itoa(d.Leaves),
		}
	}
	return rows
}
