package lexd

// Transition is one arc of the compiled transducer. Lex carries a tag or a
// grapheme segment on the lexical tape, Surf a grapheme string on the
// surface tape; either may be empty. All alternation markers are resolved
// before the transducer is finalized, so no marker symbol survives here.
type Transition struct {
	Lex  string
	Surf string
	To   int
}

// Transducer is the compiled two-tape automaton. It is immutable after
// compilation and safe to share across concurrent queries.
type Transducer struct {
	arcs   [][]Transition
	root   int
	accept int
	stats  Stats
}

// Stats summarizes a compiled transducer.
type Stats struct {
	States      int
	Transitions int
	WordClasses int
	Lexicons    int
	Entries     int
	Templates   int
}

// Stats returns compile-time statistics.
func (t *Transducer) Stats() Stats {
	return t.stats
}

func (t *Transducer) newState() int {
	t.arcs = append(t.arcs, nil)
	return len(t.arcs) - 1
}

func (t *Transducer) addArc(from int, lex, surf string, to int) {
	t.arcs[from] = append(t.arcs[from], Transition{Lex: lex, Surf: surf, To: to})
}

type tapePair struct {
	lex  string
	surf string
}

type memoKey struct {
	tpl  int
	slot int
	prev string
}

type compiler struct {
	g    *Grammar
	t    *Transducer
	memo map[memoKey]int
	// tplID distinguishes templates in the memo across word classes
	tplID int
}

// compileTransducer crosses every accept-path template of the graph with
// the concrete entries eligible for each slot. Alternation markers are
// resolved per concrete path against the preceding surface symbol, which
// is why construction is memoized on (slot position, preceding symbol):
// left entries ending in the same symbol share their continuation states.
func compileTransducer(g *Grammar, mg *MorphGraph) (*Transducer, error) {
	t := &Transducer{}
	c := &compiler{g: g, t: t, memo: make(map[memoKey]int)}
	t.root = t.newState()
	t.accept = t.newState()

	for wc := 0; wc < mg.WordClasses(); wc++ {
		built := 0
		for _, tpl := range mg.Paths(wc) {
			c.tplID++
			if prunedTemplate(g, tpl) {
				continue
			}
			start, err := c.buildSlot(tpl, 0, "")
			if err != nil {
				return nil, err
			}
			t.addArc(t.root, "", "", start)
			built++
		}
		if built == 0 {
			return nil, &EmptyLanguageError{WordClass: wc, Line: g.Top[wc].Line}
		}
		t.stats.Templates += built
	}

	t.stats.States = len(t.arcs)
	for _, arcs := range t.arcs {
		t.stats.Transitions += len(arcs)
	}
	t.stats.WordClasses = mg.WordClasses()
	t.stats.Lexicons = len(g.Lexicons)
	for _, lex := range g.Lexicons {
		t.stats.Entries += len(lex.Entries)
	}
	return t, nil
}

// prunedTemplate reports whether some slot has no eligible entries. Such a
// template denotes a word form with no attested stems and is dropped
// silently.
func prunedTemplate(g *Grammar, tpl Template) bool {
	for _, slot := range tpl {
		if slot.Lexicon == "" {
			continue
		}
		if len(eligibleEntries(g.Lexicons[slot.Lexicon], slot)) == 0 {
			return true
		}
	}
	return false
}

// eligibleEntries selects the entries a slot admits. An unfiltered slot
// admits everything; an explicit selector admits only entries carrying the
// label; a propagated filter also admits unlabeled entries.
func eligibleEntries(lex *Lexicon, slot Slot) []*Entry {
	if slot.Variant == "" {
		return lex.Entries
	}
	var out []*Entry
	for _, e := range lex.Entries {
		if e.Variant == slot.Variant || (!slot.Explicit && e.Variant == "") {
			out = append(out, e)
		}
	}
	return out
}

// buildSlot builds the sub-automaton for tpl[i:] entered with prev as the
// last emitted surface symbol, returning its start state.
func (c *compiler) buildSlot(tpl Template, i int, prev string) (int, error) {
	if i == len(tpl) {
		return c.t.accept, nil
	}
	key := memoKey{tpl: c.tplID, slot: i, prev: prev}
	if s, ok := c.memo[key]; ok {
		return s, nil
	}
	s := c.t.newState()
	c.memo[key] = s

	slot := tpl[i]

	// entry branches, separator-present variant first
	type branch struct {
		from int
		prev string
	}
	var branches []branch
	if slot.Join == JoinHyphen {
		mid := c.t.newState()
		c.t.addArc(s, "", "-", mid)
		branches = append(branches, branch{mid, "-"})
		if slot.OptJoin {
			branches = append(branches, branch{s, prev})
		}
	} else {
		branches = append(branches, branch{s, prev})
	}

	entries := c.slotEntries(slot)
	for _, br := range branches {
		for _, e := range entries {
			surf, last, err := c.resolveSurface(e, br.prev)
			if err != nil {
				return 0, err
			}
			next, err := c.buildSlot(tpl, i+1, last)
			if err != nil {
				return 0, err
			}
			c.chain(br.from, alignTapes(e.Lexical, surf), next)
		}
	}
	return s, nil
}

// slotEntries returns the concrete entries for a slot; an inline tag
// element contributes one synthetic tags-only entry.
func (c *compiler) slotEntries(slot Slot) []*Entry {
	if slot.Lexicon == "" {
		return []*Entry{{Lexical: slot.Tags, Line: slot.Line}}
	}
	return eligibleEntries(c.g.Lexicons[slot.Lexicon], slot)
}

// resolveSurface realizes an entry's surface segments given the preceding
// surface symbol: a context marker compares that symbol against its
// trigger class, a drop marker deletes one of two identical adjacent
// segments. Returns the emitted symbols and the new preceding symbol.
func (c *compiler) resolveSurface(e *Entry, prev string) ([]string, string, error) {
	run := prev
	var out []string
	for i := 0; i < len(e.Surface); i++ {
		seg := e.Surface[i]
		if seg.Marker == "" {
			out = append(out, seg.Ch)
			run = seg.Ch
			continue
		}
		m := c.g.Markers[seg.Marker]
		switch m.Kind {
		case MarkerContext:
			real := m.R2
			if c.g.Classes[m.Class].Symbols[run] {
				real = m.R1
			}
			if real != "" {
				out = append(out, real)
				run = lastSegment(real)
			}
		case MarkerDrop:
			if i+1 >= len(e.Surface) || e.Surface[i+1].Marker != "" {
				return nil, "", &SyntaxError{Line: e.Line, Msg: "drop marker must precede a literal segment"}
			}
			if run == e.Surface[i+1].Ch {
				i++ // drop one copy of the geminate pair
			}
		}
	}
	return out, run, nil
}

// alignTapes pairs the lexical symbols with the resolved surface symbols
// positionally, padding the shorter tape with epsilon.
func alignTapes(lex, surf []string) []tapePair {
	n := len(lex)
	if len(surf) > n {
		n = len(surf)
	}
	pairs := make([]tapePair, n)
	for i := 0; i < n; i++ {
		if i < len(lex) {
			pairs[i].lex = lex[i]
		}
		if i < len(surf) {
			pairs[i].surf = surf[i]
		}
	}
	return pairs
}

// chain threads a pair sequence from one state to another, creating the
// intermediate states; an empty sequence becomes a single epsilon arc.
func (c *compiler) chain(from int, pairs []tapePair, to int) {
	if len(pairs) == 0 {
		c.t.addArc(from, "", "", to)
		return
	}
	cur := from
	for i, p := range pairs {
		tgt := to
		if i < len(pairs)-1 {
			tgt = c.t.newState()
		}
		c.t.addArc(cur, p.lex, p.surf, tgt)
		cur = tgt
	}
}
