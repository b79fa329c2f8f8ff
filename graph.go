package lexd

// MorphGraph is the morphotactics graph: a prefix-shared DAG per word
// class whose edges carry slot specifications. Every path from a word
// class root to an accepting node is one legal morpheme-sequence template.
// Built once after resolution, immutable afterwards.
type MorphGraph struct {
	roots  []int
	arcs   [][]graphArc
	accept []bool
}

type graphArc struct {
	slot Slot
	to   int
}

// buildGraph merges the expanded templates of each word class into the
// graph, sharing common slot prefixes. Insertion order is preserved in the
// out-arc lists, so path enumeration reproduces declaration order.
func buildGraph(classes [][]Template) *MorphGraph {
	g := &MorphGraph{}
	for _, tpls := range classes {
		root := g.newNode()
		g.roots = append(g.roots, root)
		for _, tpl := range tpls {
			g.insert(root, tpl)
		}
	}
	return g
}

func (g *MorphGraph) newNode() int {
	g.arcs = append(g.arcs, nil)
	g.accept = append(g.accept, false)
	return len(g.arcs) - 1
}

func (g *MorphGraph) insert(node int, tpl Template) {
	cur := node
	for _, slot := range tpl {
		next := -1
		k := slot.key()
		for _, a := range g.arcs[cur] {
			if a.slot.key() == k {
				next = a.to
				break
			}
		}
		if next < 0 {
			next = g.newNode()
			g.arcs[cur] = append(g.arcs[cur], graphArc{slot: slot, to: next})
		}
		cur = next
	}
	g.accept[cur] = true
}

// WordClasses returns the number of word-class entry points.
func (g *MorphGraph) WordClasses() int {
	return len(g.roots)
}

// Paths enumerates the accept-path templates of one word class, in
// insertion (declaration) order.
func (g *MorphGraph) Paths(wordClass int) []Template {
	var out []Template
	var walk func(node int, prefix Template)
	walk = func(node int, prefix Template) {
		if g.accept[node] {
			tpl := make(Template, len(prefix))
			copy(tpl, prefix)
			out = append(out, tpl)
		}
		for _, a := range g.arcs[node] {
			walk(a.to, append(prefix, a.slot))
		}
	}
	walk(g.roots[wordClass], nil)
	return out
}

// nodeCount reports the graph size, for compile statistics.
func (g *MorphGraph) nodeCount() int {
	return len(g.arcs)
}
