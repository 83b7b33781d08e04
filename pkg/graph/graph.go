// Package graph derives an undirected adjacency view from the store's
// directed edges and runs breadth-first traversals over it. The index is
// built per operation from a consistent store view, so there is no
// separately maintained structure to drift out of sync.
package graph

import (
	"sort"

	"github.com/liliang-cn/gravec/pkg/core"
)

// Index is an undirected adjacency index over one consistent view of the
// store. Edges whose source or target no longer exists as a node are left
// out of the adjacency.
type Index struct {
	view *core.View
	adj  map[int64][]int64
}

// NewIndex builds the adjacency index for a view.
func NewIndex(view *core.View) *Index {
	adj := make(map[int64]map[int64]bool)
	link := func(a, b int64) {
		if adj[a] == nil {
			adj[a] = make(map[int64]bool)
		}
		adj[a][b] = true
	}
	for _, edge := range view.Edges {
		if !view.HasNode(edge.Source) || !view.HasNode(edge.Target) {
			continue
		}
		link(edge.Source, edge.Target)
		link(edge.Target, edge.Source)
	}

	// Sorted neighbor lists make traversal order deterministic.
	index := &Index{view: view, adj: make(map[int64][]int64, len(adj))}
	for id, set := range adj {
		neighbors := make([]int64, 0, len(set))
		for neighbor := range set {
			neighbors = append(neighbors, neighbor)
		}
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
		index.adj[id] = neighbors
	}
	return index
}

// Neighbors returns the IDs adjacent to id in ascending order, treating
// every edge as undirected. A node with no usable edges yields an empty
// slice.
func (x *Index) Neighbors(id int64) []int64 {
	neighbors := x.adj[id]
	out := make([]int64, len(neighbors))
	copy(out, neighbors)
	return out
}

// Traverse walks breadth-first from startID and returns the visited IDs in
// discovery order. The start is always first, even at maxDepth 0 and even
// when no node with that ID exists. A negative maxDepth yields an empty
// slice.
func (x *Index) Traverse(startID int64, maxDepth int) []int64 {
	order, _ := x.bfs(startID, maxDepth)
	return order
}

// Distances walks breadth-first from startID and returns each reachable
// node's depth. Nodes beyond maxDepth, or unreachable ones, are absent
// from the map rather than mapped to a sentinel.
func (x *Index) Distances(startID int64, maxDepth int) map[int64]int {
	_, dist := x.bfs(startID, maxDepth)
	return dist
}

func (x *Index) bfs(startID int64, maxDepth int) ([]int64, map[int64]int) {
	order := []int64{}
	dist := make(map[int64]int)
	if maxDepth < 0 {
		return order, dist
	}

	visited := map[int64]bool{startID: true}
	order = append(order, startID)
	dist[startID] = 0

	queue := []struct {
		id    int64
		depth int
	}{{startID, 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}
		for _, next := range x.adj[current.id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			order = append(order, next)
			dist[next] = current.depth + 1
			queue = append(queue, struct {
				id    int64
				depth int
			}{next, current.depth + 1})
		}
	}
	return order, dist
}

// TraverseWithEdges walks breadth-first from startID and returns the
// visited nodes in discovery order together with the edges connecting
// them to each other.
func (x *Index) TraverseWithEdges(startID int64, maxDepth int) ([]*core.Node, []*core.Edge) {
	return x.Subgraph(x.Traverse(startID, maxDepth))
}

// Subgraph resolves ids against the view and returns the nodes that exist,
// in the given order, together with every edge whose both endpoints are in
// the set.
func (x *Index) Subgraph(ids []int64) ([]*core.Node, []*core.Edge) {
	included := make(map[int64]bool, len(ids))
	nodes := make([]*core.Node, 0, len(ids))
	for _, id := range ids {
		node, ok := x.view.Nodes[id]
		if !ok || included[id] {
			continue
		}
		included[id] = true
		nodes = append(nodes, node)
	}

	edges := make([]*core.Edge, 0)
	for _, edge := range x.view.Edges {
		if included[edge.Source] && included[edge.Target] {
			edges = append(edges, edge)
		}
	}
	return nodes, edges
}
