// Package server exposes the counting pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/count    count homomorphisms of one pattern
//	POST /v1/classes  count every spanning subgraph of the edge universe
//	GET  /healthz     liveness probe
//	GET  /metrics     Prometheus metrics
//
// Inputs travel inline as the text of the .ntd and METIS files:
//
//	{
//	  "decomposition": "s 14 2 5\nn 1 l 1\n...",
//	  "pattern_edges": "5: 0-1 1-3 1-2 2-4",
//	  "target": "5 10\n2 3 4 5\n..."
//	}
//
// The response is the JSON form of [pipeline.Result].
//
// Every response carries an X-Request-ID header, taken from the request when
// present. Identical bodies that arrive while the first is still running
// share its result; such responses are marked with X-Deduplicated.
package server
