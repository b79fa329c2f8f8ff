package lexd

import "fmt"

// SyntaxError reports malformed grammar text. It is fatal: compilation
// aborts at the first syntax error.
type SyntaxError struct {
	// Line is the 1-based grammar line, 0 when not attributable.
	Line int
	// Msg names the offending construct and what was expected.
	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("lexd: syntax error on line %d: %s", e.Line, e.Msg)
	}
	return "lexd: syntax error: " + e.Msg
}

// CycleError reports an unresolvable recursive pattern instantiation: the
// same (pattern, variant) pair was requested while already being resolved.
type CycleError struct {
	Pattern string
	Variant string
}

func (e *CycleError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("lexd: pattern cycle at %s[%s]", e.Pattern, e.Variant)
	}
	return "lexd: pattern cycle at " + e.Pattern
}

// UnresolvedVariantError reports an explicit feature-variant selector that
// matches zero entries or rows in the referenced lexicon or pattern.
type UnresolvedVariantError struct {
	// Selector is the variant label written in brackets.
	Selector string
	// Ref is the referenced lexicon or pattern name.
	Ref string
	// In is the pattern containing the reference ("PATTERNS" for top level).
	In string
}

func (e *UnresolvedVariantError) Error() string {
	return fmt.Sprintf("lexd: selector [%s] on %s in %s matches nothing", e.Selector, e.Ref, e.In)
}

// DanglingVariantError reports an entry label that no referencing slot ever
// selects: every reference to the lexicon is filtered and none of the
// filters names the label.
type DanglingVariantError struct {
	Label   string
	Lexicon string
}

func (e *DanglingVariantError) Error() string {
	return fmt.Sprintf("lexd: label [%s] in LEXICON %s is selected by no pattern row", e.Label, e.Lexicon)
}

// EmptyLanguageError reports a word-class entry point whose every morpheme
// template was pruned because some slot had no eligible entries.
type EmptyLanguageError struct {
	// WordClass is the 0-based index of the PATTERNS row.
	WordClass int
	// Line is the grammar line of that row.
	Line int
}

func (e *EmptyLanguageError) Error() string {
	return fmt.Sprintf("lexd: word class %d (line %d) accepts no forms", e.WordClass+1, e.Line)
}

// BudgetExceededError reports that a query hit its exploration budget
// before the traversal completed. It is recoverable: retry with a larger
// budget or treat the query as unanswered.
type BudgetExceededError struct {
	Budget int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("lexd: query exceeded exploration budget of %d steps", e.Budget)
}
