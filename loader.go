package lexd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadFile reads one grammar file.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	return string(data), nil
}

// LoadDir reads every *.lexd file in dir and concatenates them in
// lexicographic file-name order, the convention grammar authors rely on to
// order their blocks (00_rules.lexd before the stem files).
func LoadDir(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.lexd"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no .lexd files in %s", dir)
	}
	sort.Strings(matches)

	var b strings.Builder
	for _, path := range matches {
		text, err := LoadFile(path)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// CompileFile loads and compiles a single grammar file.
func CompileFile(path string) (*Transducer, error) {
	text, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(text)
}

// CompilePath compiles a grammar from path: a directory of .lexd files or
// a single file.
func CompilePath(path string) (*Transducer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		text, err := LoadDir(path)
		if err != nil {
			return nil, err
		}
		return Compile(text)
	}
	return CompileFile(path)
}
