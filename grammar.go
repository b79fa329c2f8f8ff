package lexd

// Seg is one surface-tape segment of an entry: either a literal grapheme
// (a rune plus any combining marks) or a reference to an alternation marker.
type Seg struct {
	// Ch is the literal grapheme; empty when Marker is set.
	Ch string
	// Marker is the name of a declared alternation marker.
	Marker string
}

// Entry is one line of a LEXICON block: a lexical symbol sequence paired
// with a surface realization and an optional feature-variant label.
type Entry struct {
	// Lexical is the lexical-tape symbol sequence: tags ("<pl>") and
	// graphemes, in declaration order.
	Lexical []string
	// Surface is the surface-tape segment sequence, markers unresolved.
	Surface []Seg
	// Variant is the feature-variant label, empty when absent.
	Variant string
	// Line is the grammar line the entry was declared on.
	Line int
}

// Lexicon is a named, ordered collection of entries. Reopening a LEXICON
// block with the same name appends to the existing entry list.
type Lexicon struct {
	Name    string
	Entries []*Entry
}

// Junction describes the separator policy at the boundary between two
// morpheme slots.
type Junction int

const (
	// JoinDirect concatenates the two slots with no separator.
	JoinDirect Junction = iota
	// JoinHyphen inserts a hyphen separator between the two slots.
	JoinHyphen
)

// ElementKind discriminates the element variants of a pattern row.
type ElementKind int

const (
	// ElemRef references a lexicon or pattern by name.
	ElemRef ElementKind = iota
	// ElemGroup is a parenthesized set of alternative sub-sequences,
	// optionally skippable as a whole.
	ElemGroup
	// ElemJunction is a separator-policy token between two slots.
	ElemJunction
	// ElemTags is an inline tag element such as "[<n>]": lexical tags
	// with an empty surface realization.
	ElemTags
)

// Element is one item of a pattern row.
type Element struct {
	Kind ElementKind
	// Name is the referenced lexicon or pattern name (ElemRef).
	Name string
	// Variant is the explicit feature-variant selector on a reference,
	// empty when the reference carries no bracket.
	Variant string
	// Alts holds the alternative element sequences of a group (ElemGroup),
	// one per '|'-separated branch.
	Alts [][]Element
	// Junction is the separator policy (ElemJunction).
	Junction Junction
	// Optional marks an optional junction "(-)" or a group with a trailing
	// '?'.
	Optional bool
	// Tags holds the inline tag symbols (ElemTags).
	Tags []string
	// Line is the grammar line the element appeared on.
	Line int
}

// Row is one alternative of a pattern: an ordered element sequence with an
// optional feature-variant label restricting when the row applies.
type Row struct {
	Elements []Element
	Variant  string
	Line     int
}

// Pattern is a named set of alternative rows.
type Pattern struct {
	Name string
	Rows []Row
}

// Class is a named set of surface symbols used as an alternation trigger,
// declared with a CLASS directive.
type Class struct {
	Name    string
	Symbols map[string]bool
}

// MarkerKind discriminates the two alternation-marker behaviors.
type MarkerKind int

const (
	// MarkerContext realizes R1 after a symbol of the trigger class and
	// R2 otherwise.
	MarkerContext MarkerKind = iota
	// MarkerDrop deletes one of two identical adjacent segments, for
	// gemination avoidance.
	MarkerDrop
)

// Marker is a declared alternation marker.
type Marker struct {
	Name string
	Kind MarkerKind
	// Class is the trigger class name (MarkerContext only).
	Class string
	// R1 is the realization after a trigger-class symbol; may be empty.
	R1 string
	// R2 is the realization elsewhere; may be empty.
	R2 string
	// Line is the declaration line.
	Line int
}

// Grammar is the parsed form of a grammar text: the top-level word-class
// rows plus the pattern, lexicon, class and marker tables.
type Grammar struct {
	// Top holds the PATTERNS rows; each row is one word-class entry point,
	// in declaration order.
	Top []Row
	// Patterns maps pattern name to its definition.
	Patterns map[string]*Pattern
	// Lexicons maps lexicon name to its entry list.
	Lexicons map[string]*Lexicon
	// Classes maps class name to its symbol set.
	Classes map[string]*Class
	// Markers maps marker name to its declaration.
	Markers map[string]*Marker
}

func newGrammar() *Grammar {
	return &Grammar{
		Patterns: make(map[string]*Pattern),
		Lexicons: make(map[string]*Lexicon),
		Classes:  make(map[string]*Class),
		Markers:  make(map[string]*Marker),
	}
}

// validate checks cross-references that the line parser cannot: marker and
// class declarations behind marker references, reference targets, and
// pattern/lexicon name collisions.
func (g *Grammar) validate() error {
	for name := range g.Patterns {
		if _, dup := g.Lexicons[name]; dup {
			return &SyntaxError{Msg: "name " + name + " declared as both PATTERN and LEXICON"}
		}
	}
	for _, m := range g.Markers {
		if m.Kind == MarkerContext {
			if _, ok := g.Classes[m.Class]; !ok {
				return &SyntaxError{Line: m.Line, Msg: "marker " + m.Name + " references undeclared class " + m.Class}
			}
		}
	}
	for _, lex := range g.Lexicons {
		for _, e := range lex.Entries {
			for _, seg := range e.Surface {
				if seg.Marker == "" {
					continue
				}
				if _, ok := g.Markers[seg.Marker]; !ok {
					return &SyntaxError{Line: e.Line, Msg: "undeclared marker {" + seg.Marker + "}"}
				}
			}
		}
	}
	check := func(rows []Row) error {
		for _, row := range rows {
			if err := g.checkElements(row.Elements); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(g.Top); err != nil {
		return err
	}
	for _, p := range g.Patterns {
		if err := check(p.Rows); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grammar) checkElements(elems []Element) error {
	for _, el := range elems {
		switch el.Kind {
		case ElemRef:
			_, isPat := g.Patterns[el.Name]
			_, isLex := g.Lexicons[el.Name]
			if !isPat && !isLex {
				return &SyntaxError{Line: el.Line, Msg: "reference to undeclared name " + el.Name}
			}
		case ElemGroup:
			for _, alt := range el.Alts {
				if err := g.checkElements(alt); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
