package lexd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The glide marker must realize й exactly when the preceding surface
// symbol is vowel-final, empty otherwise — never both, never neither.
func TestAlternationPerPath(t *testing.T) {
	tr := mustCompile(t, `
CLASS Vowel аеиоу

MARKER Glide й after Vowel else 0

PATTERNS
Stem Suf

LEXICON Stem
пода
дуст

LEXICON Suf
<pl>:{Glide}ен
`)
	got, err := tr.Generate("пода<pl>", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"подайен"}, got)

	got, err = tr.Generate("дуст<pl>", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"дустен"}, got)

	// neither variant leaks to the other stem
	readings, err := tr.Analyze("подаен", nil)
	require.NoError(t, err)
	assert.Empty(t, readings)
	readings, err = tr.Analyze("дустйен", nil)
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestMarkerWordInitial(t *testing.T) {
	// at the word edge there is no preceding symbol: the marker takes its
	// else-realization
	tr := mustCompile(t, `
CLASS Vowel аеиоу

MARKER Glide й after Vowel else 0

PATTERNS
Suf

LEXICON Suf
<pl>:{Glide}ен
`)
	got, err := tr.Generate("<pl>", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ен"}, got)
}

func TestDegemination(t *testing.T) {
	tr := mustCompile(t, `
MARKER Degem drop

PATTERNS
Stem Suf

LEXICON Stem
сан
дуст

LEXICON Suf
<pl>:{Degem}нен
`)
	got, err := tr.Generate("сан<pl>", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"санен"}, got, "geminate нн collapses")

	got, err = tr.Generate("дуст<pl>", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"дустнен"}, got)

	readings, err := tr.Analyze("саннен", nil)
	require.NoError(t, err)
	assert.Empty(t, readings, "the geminate spelling is not accepted")
}

func TestDropMarkerNeedsLiteral(t *testing.T) {
	_, err := Compile(`
MARKER Degem drop

PATTERNS
Stem

LEXICON Stem
х:х{Degem}
`)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
}

func TestMandatoryHyphen(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
A - B

LEXICON A
аб
LEXICON B
во
`)
	got, err := tr.Generate("абво", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"аб-во"}, got)

	readings, err := tr.Analyze("аб-во", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"абво"}, readings, "the separator stays off the lexical tape")

	readings, err = tr.Analyze("абво", nil)
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestOptionalHyphenBothEdges(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
A (-) B

LEXICON A
аб
LEXICON B
во
`)
	got, err := tr.Generate("абво", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"аб-во", "абво"}, got, "separator-present variant first")

	for _, surface := range []string{"аб-во", "абво"} {
		readings, err := tr.Analyze(surface, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"абво"}, readings, "Analyze(%q)", surface)
	}
}

// A hyphen changes the phonological context: a context marker after an
// optional separator resolves differently on the two parallel edges.
func TestAlternationAcrossJunction(t *testing.T) {
	tr := mustCompile(t, `
CLASS Vowel аеиоу

MARKER Glide й after Vowel else 0

PATTERNS
A (-) B

LEXICON A
па

LEXICON B
<x>:{Glide}ен
`)
	got, err := tr.Generate("па<x>", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"па-ен", "пайен"}, got)
}

func TestGroupAlternationCompiles(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
Stem (Num|Case)

LEXICON Stem
дуст

LEXICON Num
<pl>:ен

LEXICON Case
<acc>:ро
`)
	assert.Equal(t, 2, tr.Stats().Templates)

	readings, err := tr.Analyze("дустен", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"дуст<pl>"}, readings)

	readings, err = tr.Analyze("дустро", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"дуст<acc>"}, readings)

	// neither branch accepts the bare stem
	readings, err = tr.Analyze("дуст", nil)
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestSlotPruningSilent(t *testing.T) {
	// Empty has no entries: its row is pruned, the other row survives
	tr := mustCompile(t, `
PATTERNS
Stem Empty
Stem

LEXICON Stem
х

LEXICON Empty
`)
	readings, err := tr.Analyze("х", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"х"}, readings)
	assert.Equal(t, 1, tr.Stats().Templates)
}

func TestEmptyLanguage(t *testing.T) {
	_, err := Compile(`
PATTERNS
Stem Empty

LEXICON Stem
х

LEXICON Empty
`)
	var eerr *EmptyLanguageError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, 0, eerr.WordClass)
	assert.Equal(t, 3, eerr.Line)
}

func TestVariantEligibility(t *testing.T) {
	tr := mustCompile(t, `
PATTERNS
Pst[f]
Pst[m]

PATTERN Pst
PstStem [<pst>]

LEXICON PstStem
түд[f]
туйд[m]
сут
`)
	// labeled entries stay within their word class
	readings, err := tr.Analyze("түд", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"түд<pst>"}, readings)

	readings, err = tr.Analyze("туйд", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"туйд<pst>"}, readings)

	// an unlabeled entry is admitted by both propagated filters; the
	// reading set still holds it once
	readings, err = tr.Analyze("сут", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"сут<pst>"}, readings)
}
