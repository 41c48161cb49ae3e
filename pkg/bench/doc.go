// Package bench measures counting algorithms over a matrix of decompositions
// and target graphs.
//
// # Matrix
//
// A matrix is a CSV file whose header names target graphs and whose rows
// start with a decomposition name. A cell of 1 marks the pair for
// measurement, 0 skips it:
//
//	ntd,k5.graph,c4.graph
//	example_2.ntd,1,1
//	example_3.ntd,0,1
//
// # Algorithms
//
//   - [AlgorithmClasses]: one edge-subset run counting every class
//   - [AlgorithmCountEach]: one basic run per spanning subgraph of the
//     edge universe
//   - [AlgorithmBrute]: the brute-force oracle over the same subgraphs
//
// Every measured pair yields one [Record] per algorithm, holding the
// individual durations and their mean. Records of a run share a RunID and
// can be persisted with a [Store].
package bench
