// Package lexd compiles declarative morpheme grammars — lexicon blocks,
// paradigm patterns and ordering rules in the lexd notation family — into
// a finite-state transducer supporting two inverse operations: analysis of
// a surface word form into tagged lexical readings, and generation of
// surface forms from a tagged lexical form.
//
// A grammar is plain text: PATTERNS declares the word-class entry points,
// PATTERN blocks define reusable slot sequences, LEXICON blocks list
// stem/affix entries, and CLASS/MARKER directives describe
// context-dependent alternations. Compile turns such text into an
// immutable Transducer that any number of goroutines may query.
package lexd

// Compile parses, resolves and compiles a grammar text into a Transducer.
// Compilation is a one-shot batch: it either completes or fails with a
// diagnosable error (*SyntaxError, *CycleError, *UnresolvedVariantError,
// *DanglingVariantError, *EmptyLanguageError); there is no partial state.
func Compile(text string) (*Transducer, error) {
	g, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if len(g.Top) == 0 {
		return nil, &SyntaxError{Msg: "grammar declares no PATTERNS rows"}
	}
	classes, err := resolve(g)
	if err != nil {
		return nil, err
	}
	graph := buildGraph(classes)
	return compileTransducer(g, graph)
}
