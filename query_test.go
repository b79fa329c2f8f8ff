package lexd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeAmbiguity(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
VerbStem [<v>] VerbPers
VerbStem [<v>]

LEXICON VerbStem
вин

LEXICON VerbPers
<1sg>:ум
<3sg>:
`)
	readings, err := tr.Analyze("вин", nil)
	require.NoError(t, err)
	// the bare-stem reading and the zero-suffix reading both survive
	assert.ElementsMatch(t, []string{"вин<v><3sg>", "вин<v>"}, readings)

	readings, err = tr.Analyze("винум", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"вин<v><1sg>"}, readings)
}

func TestOptionalityCompleteness(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
Word

PATTERN Word
A (B)? (C)? [<w>]

LEXICON A
а

LEXICON B
б

LEXICON C
в
`)
	// two optional slots yield exactly 2^2 distinct surface strings
	surfaces, err := tr.Generate("абв<w>", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"абв"}, surfaces)

	all := map[string]bool{}
	for _, lex := range []string{"абв<w>", "аб<w>", "ав<w>", "а<w>"} {
		out, err := tr.Generate(lex, nil)
		require.NoError(t, err)
		require.Len(t, out, 1, lex)
		all[out[0]] = true
	}
	assert.Len(t, all, 4)
}

func TestGenerateOptionalHyphenSurfaces(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
Word

PATTERN Word
A (-) B (-) C [<w>]

LEXICON A
а

LEXICON B
б

LEXICON C
в
`)
	surfaces, err := tr.Generate("абв<w>", nil)
	require.NoError(t, err)
	// both junctions are independent, so four surface forms come back
	assert.ElementsMatch(t, []string{"а-б-в", "а-бв", "аб-в", "абв"}, surfaces)
	// the separator-present form is explored first
	assert.Equal(t, "а-б-в", surfaces[0])
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	tr := mustCompile(t, nounVerbGrammar)

	readings, err := tr.Analyze("хона", nil)
	require.NoError(t, err)
	assert.Empty(t, readings)

	surfaces, err := tr.Generate("хона<n><sg>", nil)
	require.NoError(t, err)
	assert.Empty(t, surfaces)
}

func TestQueryBudget(t *testing.T) {
	tr := mustCompile(t, nounVerbGrammar)

	_, err := tr.Analyze("дустен", &Options{Budget: 1})
	var berr *BudgetExceededError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 1, berr.Budget)

	_, err = tr.Generate("дуст<n><pl>", &Options{Budget: 1})
	require.ErrorAs(t, err, &berr)

	// the default budget is ample for a small transducer
	readings, err := tr.Analyze("дустен", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"дуст<n><pl>"}, readings)
}

func TestAnalyzeNormalizesInput(t *testing.T) {
	tr := mustCompile(t, nounVerbGrammar)

	// a stressed surface form analyzes the same as its plain spelling
	readings, err := tr.Analyze("ду́стен", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"дуст<n><pl>"}, readings)
}

func TestQueryOrderIsDeterministic(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
VerbStem [<v>] VerbPers
VerbStem [<v>]

LEXICON VerbStem
вин

LEXICON VerbPers
<3sg>:
`)
	first, err := tr.Analyze("вин", nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := tr.Analyze("вин", nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
