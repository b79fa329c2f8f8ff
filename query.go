package lexd

import "strings"

// DefaultBudget bounds query-time path exploration when the caller does
// not supply one.
const DefaultBudget = 100000

// Options configures a single query.
type Options struct {
	// Budget is the maximum number of transitions a traversal may take
	// before giving up with BudgetExceededError. Zero or negative means
	// DefaultBudget.
	Budget int
}

// DefaultOptions returns the default query options.
func DefaultOptions() *Options {
	return &Options{Budget: DefaultBudget}
}

func budgetOf(opts *Options) int {
	if opts == nil || opts.Budget <= 0 {
		return DefaultBudget
	}
	return opts.Budget
}

// Analyze returns every lexical reading of a surface word form, in a
// stable order: word-class declaration order, then alternative-row order,
// then lexicon entry order. An unanalyzable form yields an empty result
// and no error. Safe for concurrent use; the traversal frontier is local
// to the call.
func (t *Transducer) Analyze(surface string, opts *Options) ([]string, error) {
	budget := budgetOf(opts)
	input := Normalize(surface)

	var results []string
	seen := make(map[string]bool)
	steps := 0

	var walk func(state, pos int, acc []string) error
	walk = func(state, pos int, acc []string) error {
		if state == t.accept && pos == len(input) {
			reading := strings.Join(acc, "")
			if !seen[reading] {
				seen[reading] = true
				results = append(results, reading)
			}
		}
		for _, a := range t.arcs[state] {
			if a.Surf != "" && !strings.HasPrefix(input[pos:], a.Surf) {
				continue
			}
			steps++
			if steps > budget {
				return &BudgetExceededError{Budget: budget}
			}
			next := acc
			if a.Lex != "" {
				next = append(acc[:len(acc):len(acc)], a.Lex)
			}
			if err := walk(a.To, pos+len(a.Surf), next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(t.root, 0, nil); err != nil {
		return nil, err
	}
	return results, nil
}

// Generate returns every surface realization of a lexical form (stem plus
// tags, e.g. "дуст<pl>"), more than one when optional junctions apply. An
// ungenerable form yields an empty result and no error.
func (t *Transducer) Generate(lexical string, opts *Options) ([]string, error) {
	budget := budgetOf(opts)
	syms := tokenizeLexical(Normalize(lexical))

	var results []string
	seen := make(map[string]bool)
	steps := 0

	var walk func(state, j int, surf string) error
	walk = func(state, j int, surf string) error {
		if state == t.accept && j == len(syms) {
			if !seen[surf] {
				seen[surf] = true
				results = append(results, surf)
			}
		}
		for _, a := range t.arcs[state] {
			nj := j
			if a.Lex != "" {
				if j >= len(syms) || syms[j] != a.Lex {
					continue
				}
				nj = j + 1
			}
			steps++
			if steps > budget {
				return &BudgetExceededError{Budget: budget}
			}
			if err := walk(a.To, nj, surf+a.Surf); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(t.root, 0, ""); err != nil {
		return nil, err
	}
	return results, nil
}
