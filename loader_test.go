package lexd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGrammarFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammarFile(t, dir, "pamir.lexd", nounVerbGrammar)

	tr, err := CompileFile(path)
	require.NoError(t, err)

	readings, err := tr.Analyze("дустен", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"дуст<n><pl>"}, readings)
}

func TestLoadDirOrdersByName(t *testing.T) {
	dir := t.TempDir()
	// the rules file sorts first and must come first in the concatenation
	writeGrammarFile(t, dir, "10_stems.lexd", "LEXICON Stem\nдуст\n")
	writeGrammarFile(t, dir, "00_rules.lexd", "PATTERNS\nStem [<n>]\n")
	writeGrammarFile(t, dir, "notes.txt", "ignored\n")

	text, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "PATTERNS\nStem [<n>]\n\nLEXICON Stem\nдуст\n\n", text)

	tr, err := Compile(text)
	require.NoError(t, err)
	readings, err := tr.Analyze("дуст", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"дуст<n>"}, readings)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .lexd files")
}

func TestCompilePath(t *testing.T) {
	dir := t.TempDir()
	writeGrammarFile(t, dir, "pamir.lexd", nounVerbGrammar)

	fromDir, err := CompilePath(dir)
	require.NoError(t, err)
	fromFile, err := CompilePath(filepath.Join(dir, "pamir.lexd"))
	require.NoError(t, err)
	assert.Equal(t, fromDir.Stats(), fromFile.Stats())

	_, err = CompilePath(filepath.Join(dir, "missing.lexd"))
	require.Error(t, err)
}

func TestCompileFileSyntaxErrorHasLine(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammarFile(t, dir, "bad.lexd", "PATTERNS\nStem [<n>\n")

	_, err := CompileFile(path)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 2, serr.Line)
}
