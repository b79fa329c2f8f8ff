package lexd

import "strings"

// Slot is one concrete morpheme slot of a fully expanded template: either
// a lexicon reference (with the variant filter in force) or an inline tag
// element, annotated with the junction policy at its left boundary.
type Slot struct {
	// Lexicon is the referenced lexicon name; empty for inline tags.
	Lexicon string
	// Variant filters eligible entries; empty admits all.
	Variant string
	// Explicit is true when the filter was written as a bracket selector,
	// false when it was propagated from an enclosing reference. Explicit
	// filters admit only entries carrying the label; propagated filters
	// also admit unlabeled entries.
	Explicit bool
	// Join is the separator policy at the boundary before this slot.
	Join Junction
	// OptJoin marks the separator as optional: both surface variants are
	// legal.
	OptJoin bool
	// Tags holds inline tag symbols when Lexicon is empty.
	Tags []string
	// Line is the grammar line of the originating element.
	Line int
}

// Template is one fully expanded morpheme-sequence template.
type Template []Slot

// key returns a canonical string for dedup and trie sharing. Line numbers
// are excluded: two occurrences of the same slot shape are the same slot.
func (s Slot) key() string {
	var b strings.Builder
	b.WriteString(s.Lexicon)
	b.WriteByte('[')
	b.WriteString(s.Variant)
	if s.Explicit {
		b.WriteByte('!')
	}
	b.WriteByte(']')
	if s.Join == JoinHyphen {
		if s.OptJoin {
			b.WriteString("(-)")
		} else {
			b.WriteByte('-')
		}
	}
	for _, t := range s.Tags {
		b.WriteString(t)
	}
	return b.String()
}

func (t Template) key() string {
	parts := make([]string, len(t))
	for i, s := range t {
		parts[i] = s.key()
	}
	return strings.Join(parts, " ")
}

type resKey struct {
	name    string
	variant string
}

// lexiconUse records how a lexicon is reached by resolved slots, for the
// dangling-label validation.
type lexiconUse struct {
	unfiltered bool
	labels     map[string]bool
}

// resolver expands patterns into templates, memoizing on (pattern, variant)
// and detecting instantiation cycles with an in-progress set.
type resolver struct {
	g      *Grammar
	memo   map[resKey][]Template
	active map[resKey]bool
	uses   map[string]*lexiconUse
}

// resolve expands every top-level row into its template set, one slice per
// word class, in declaration order. It then validates that no entry label
// dangles unselected.
func resolve(g *Grammar) ([][]Template, error) {
	r := &resolver{
		g:      g,
		memo:   make(map[resKey][]Template),
		active: make(map[resKey]bool),
		uses:   make(map[string]*lexiconUse),
	}
	out := make([][]Template, len(g.Top))
	for i, row := range g.Top {
		tpls, err := r.expandRow(row, row.Variant, "PATTERNS")
		if err != nil {
			return nil, err
		}
		out[i] = dropEmpty(dedupe(tpls))
	}
	if err := r.checkDangling(); err != nil {
		return nil, err
	}
	return out, nil
}

// dropEmpty removes the empty template: a word class does not accept the
// empty word, though empty expansions of nested patterns are meaningful at
// splice points.
func dropEmpty(tpls []Template) []Template {
	var out []Template
	for _, t := range tpls {
		if len(t) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(tpls []Template) []Template {
	seen := make(map[string]bool, len(tpls))
	var out []Template
	for _, t := range tpls {
		k := t.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

// expandPattern expands the named pattern under a variant context. Rows
// labeled with a different variant are skipped; the variant in force inside
// a row is the row's own label when present, otherwise the propagated one.
func (r *resolver) expandPattern(name, variant string, explicit bool, in string) ([]Template, error) {
	k := resKey{name, variant}
	if r.active[k] {
		return nil, &CycleError{Pattern: name, Variant: variant}
	}
	if tpls, ok := r.memo[k]; ok {
		return tpls, nil
	}
	r.active[k] = true
	defer delete(r.active, k)

	p := r.g.Patterns[name]
	var out []Template
	matched := 0
	for _, row := range p.Rows {
		if row.Variant != "" && variant != "" && row.Variant != variant {
			continue
		}
		matched++
		ctx := row.Variant
		if ctx == "" {
			ctx = variant
		}
		tpls, err := r.expandRow(row, ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, tpls...)
	}
	if matched == 0 && explicit {
		return nil, &UnresolvedVariantError{Selector: variant, Ref: name, In: in}
	}
	out = dedupe(out)
	r.memo[k] = out
	return out, nil
}

// expandRow expands one row: groups are unfolded into their admissible
// element combinations, then each combination is resolved into templates
// by crossing the alternatives of every reference. A combination with no
// elements yields the empty template, which matters when the row belongs
// to a pattern referenced from elsewhere.
func (r *resolver) expandRow(row Row, variant, in string) ([]Template, error) {
	var out []Template
	for _, combo := range unfoldGroups(row.Elements) {
		if !junctionsPlaceable(combo) {
			continue
		}
		tpls, err := r.resolveSeq(combo, variant, in)
		if err != nil {
			return nil, err
		}
		out = append(out, tpls...)
	}
	return out, nil
}

// unfoldGroups enumerates the element sequences a row admits: each group
// contributes its alternatives in declaration order, and its absence last
// when the group is optional.
func unfoldGroups(elems []Element) [][]Element {
	seqs := [][]Element{{}}
	for _, el := range elems {
		if el.Kind != ElemGroup {
			for i := range seqs {
				seqs[i] = append(seqs[i], el)
			}
			continue
		}
		var exps [][]Element
		for _, alt := range el.Alts {
			exps = append(exps, unfoldGroups(alt)...)
		}
		if el.Optional {
			exps = append(exps, nil)
		}
		var next [][]Element
		for _, seq := range seqs {
			for _, exp := range exps {
				withExp := make([]Element, 0, len(seq)+len(exp))
				withExp = append(withExp, seq...)
				withExp = append(withExp, exp...)
				next = append(next, withExp)
			}
		}
		seqs = next
	}
	return seqs
}

// junctionsPlaceable rejects combinations where skipping a group left a
// separator dangling at the row edge or against another separator.
func junctionsPlaceable(elems []Element) bool {
	prevJunction := true // row start counts as a boundary
	for _, el := range elems {
		if el.Kind == ElemJunction {
			if prevJunction {
				return false
			}
			prevJunction = true
		} else {
			prevJunction = false
		}
	}
	return !prevJunction || len(elems) == 0
}

// partialTpl is a template under construction with the junction pending at
// its right edge. The pending junction is per template: a pattern splice
// that contributes an empty expansion leaves it in force for the next slot.
type partialTpl struct {
	tpl     Template
	join    Junction
	optJoin bool
}

// resolveSeq turns a group-free element sequence into templates, applying
// the pending junction to the next slot and crossing pattern expansions. A
// junction left pending at the end of the sequence is dropped.
func (r *resolver) resolveSeq(elems []Element, variant, in string) ([]Template, error) {
	acc := []partialTpl{{}}

	appendSlot := func(s Slot) {
		for i := range acc {
			s2 := s
			s2.Join, s2.OptJoin = acc[i].join, acc[i].optJoin
			acc[i].tpl = append(acc[i].tpl, s2)
			acc[i].join, acc[i].optJoin = JoinDirect, false
		}
	}

	for _, el := range elems {
		switch el.Kind {
		case ElemJunction:
			for i := range acc {
				acc[i].join, acc[i].optJoin = el.Junction, el.Optional
			}

		case ElemTags:
			appendSlot(Slot{Tags: el.Tags, Line: el.Line})

		case ElemRef:
			if lex, ok := r.g.Lexicons[el.Name]; ok {
				v, explicit := variant, false
				if el.Variant != "" {
					v, explicit = el.Variant, true
				}
				if explicit && !hasLabel(lex, v) {
					return nil, &UnresolvedVariantError{Selector: v, Ref: el.Name, In: in}
				}
				r.recordUse(el.Name, v)
				appendSlot(Slot{Lexicon: el.Name, Variant: v, Explicit: explicit, Line: el.Line})
			} else {
				sel := el.Variant
				if sel == "" {
					sel = variant
				}
				subs, err := r.expandPattern(el.Name, sel, el.Variant != "", in)
				if err != nil {
					return nil, err
				}
				var next []partialTpl
				for _, p := range acc {
					for _, sub := range subs {
						if len(sub) == 0 {
							cp := make(Template, len(p.tpl))
							copy(cp, p.tpl)
							next = append(next, partialTpl{tpl: cp, join: p.join, optJoin: p.optJoin})
							continue
						}
						spliced := make(Template, 0, len(p.tpl)+len(sub))
						spliced = append(spliced, p.tpl...)
						head := sub[0]
						head.Join, head.OptJoin = p.join, p.optJoin
						spliced = append(spliced, head)
						spliced = append(spliced, sub[1:]...)
						next = append(next, partialTpl{tpl: spliced})
					}
				}
				acc = next
			}
		}
	}

	out := make([]Template, len(acc))
	for i, p := range acc {
		out[i] = p.tpl
	}
	return out, nil
}

func hasLabel(lex *Lexicon, label string) bool {
	for _, e := range lex.Entries {
		if e.Variant == label {
			return true
		}
	}
	return false
}

func (r *resolver) recordUse(lexicon, variant string) {
	u := r.uses[lexicon]
	if u == nil {
		u = &lexiconUse{labels: make(map[string]bool)}
		r.uses[lexicon] = u
	}
	if variant == "" {
		u.unfiltered = true
	} else {
		u.labels[variant] = true
	}
}

// checkDangling flags entry labels that no referencing slot selects. A
// lexicon reached by at least one unfiltered slot covers all its labels;
// unreferenced lexicons are left alone.
func (r *resolver) checkDangling() error {
	for name, u := range r.uses {
		if u.unfiltered {
			continue
		}
		for _, e := range r.g.Lexicons[name].Entries {
			if e.Variant != "" && !u.labels[e.Variant] {
				return &DanglingVariantError{Label: e.Variant, Lexicon: name}
			}
		}
	}
	return nil
}
