package transloc

import (
	"sort"
	"strconv"
)

// Component is a maximal set of calls linked, directly or transitively, by
// matched pairs.
type Component struct {
	// ID is the 0-based rank among the components that have calls from both
	// assays.
	ID int
	// HiC and LR are the member IDs, sorted lexicographically.
	HiC []string
	LR  []string
}

// Name returns the component label used in the output tables, e.g. "C0".
func (c Component) Name() string { return "C" + strconv.Itoa(c.ID) }

type assay uint8

const (
	assayHiC assay = iota
	assayLR
)

// node is a call in the match graph. IDs are only unique within an assay, so
// the assay is part of the identity.
type node struct {
	assay assay
	id    string
}

// matchGraph is an undirected bipartite graph over calls. Nodes and
// neighbor lists remember insertion order so that traversals are
// reproducible.
type matchGraph struct {
	nodes []node
	adj   map[node][]node
	edges map[[2]node]struct{}
}

func newMatchGraph() *matchGraph {
	return &matchGraph{
		adj:   map[node][]node{},
		edges: map[[2]node]struct{}{},
	}
}

func (g *matchGraph) addNode(n node) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = nil
		g.nodes = append(g.nodes, n)
	}
}

func (g *matchGraph) addEdge(a, b node) {
	g.addNode(a)
	g.addNode(b)
	if _, ok := g.edges[[2]node{a, b}]; ok {
		return
	}
	g.edges[[2]node{a, b}] = struct{}{}
	g.edges[[2]node{b, a}] = struct{}{}
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
}

// components runs a breadth-first search from every unvisited node, in node
// insertion order, and returns the node sets found.
func (g *matchGraph) components() [][]node {
	var (
		comps   [][]node
		visited = make(map[node]bool, len(g.nodes))
		queue   []node
	)
	for _, start := range g.nodes {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue = append(queue[:0], start)
		var comp []node
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			comp = append(comp, n)
			for _, nb := range g.adj[n] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// BuildComponents groups the matched calls into connected components. Only
// components with at least one call from each assay are returned; they are
// numbered 0, 1, ... in the order their first node was added to the graph,
// which follows the order of pairs.
func BuildComponents(pairs []Pair) []Component {
	g := newMatchGraph()
	for _, p := range pairs {
		g.addEdge(node{assayHiC, p.HiCID}, node{assayLR, p.LRID})
	}
	var comps []Component
	for _, nodes := range g.components() {
		c := Component{ID: len(comps)}
		for _, n := range nodes {
			if n.assay == assayHiC {
				c.HiC = append(c.HiC, n.id)
			} else {
				c.LR = append(c.LR, n.id)
			}
		}
		if len(c.HiC) == 0 || len(c.LR) == 0 {
			continue
		}
		sort.Strings(c.HiC)
		sort.Strings(c.LR)
		comps = append(comps, c)
	}
	return comps
}
