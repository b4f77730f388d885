package inputs

import "github.com/viant/pytracer/runtime"

// BuildGraph turns a 1-indexed adjacency list (adj[i] lists the neighbors
// of node i+1, matching the traced subset's `n, edges` graph-problem
// convention) into a runtime.Dict mapping each node's integer label to a
// runtime.List of its neighbor labels — the shape a traced `graph[node]`
// lookup expects.
func BuildGraph(adjacency [][]int) runtime.Value {
	g := runtime.NewDict()
	for i, neighbors := range adjacency {
		label := runtime.Int(i + 1)
		items := make([]runtime.Value, len(neighbors))
		for j, n := range neighbors {
			items[j] = runtime.Int(n)
		}
		g.Set(label, runtime.NewList(items...))
	}
	return g
}
