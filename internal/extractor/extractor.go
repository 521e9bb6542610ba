// Package extractor finds Python import statements with line-oriented pattern matching.
//
// This is a best-effort heuristic, not a Python parser. Known blind spots:
//   - imports built at runtime (importlib, __import__, exec) are not seen
//   - backslash line continuations are not joined
//   - only the first statement of a semicolon-joined line is considered ("import os; import sys" yields os)
//   - relative imports (from . import x) have no top-level package and are skipped
//   - imports nested in functions or try/except blocks are reported like any other
package extractor

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ppiankov/importspectre/internal/models"
)

const notebookExt = ".ipynb"

var (
	plainImportPattern = regexp.MustCompile(
		`^import\s+[A-Za-z0-9_.]+(?:\s+as\s+[A-Za-z0-9_]+)?(?:\s*,\s*[A-Za-z0-9_.]+(?:\s+as\s+[A-Za-z0-9_]+)?)*`)
	fromImportPattern = regexp.MustCompile(
		`^from\s+[A-Za-z0-9_.]+\s+import(?:\s*\(|\s+[A-Za-z0-9_*])`)

	topLevelPattern = regexp.MustCompile(`^(?:import|from)\s+([A-Za-z0-9_]+)(?:[.,;\s]|$)`)
	importListItem  = regexp.MustCompile(`^([A-Za-z0-9_]+)(?:[.;\s]|$)`)
)

// ProcessFile reads a source file or notebook and extracts its imports.
func ProcessFile(path string) ([]models.ImportStatement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.HasSuffix(path, notebookExt) {
		imports, err := ExtractNotebook(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse notebook %s: %w", path, err)
		}
		return imports, nil
	}

	return ExtractSource(string(data)), nil
}

// ExtractSource returns the imports found in Python source text, in line order.
func ExtractSource(text string) []models.ImportStatement {
	var s scanState
	for _, line := range strings.Split(text, "\n") {
		s.feed(line)
	}
	return s.imports
}

// scanState is the per-file (or per-cell) multi-line import state machine.
type scanState struct {
	accumulating bool
	current      strings.Builder
	imports      []models.ImportStatement
}

func (s *scanState) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	if s.accumulating {
		s.current.WriteString(" ")
		s.current.WriteString(line)
		if strings.Contains(line, ")") {
			s.accumulating = false
			s.emit(s.current.String())
			s.current.Reset()
		}
		return
	}

	if !plainImportPattern.MatchString(line) && !fromImportPattern.MatchString(line) {
		return
	}

	if strings.Contains(line, "(") && !strings.Contains(line, ")") {
		s.accumulating = true
		s.current.Reset()
		s.current.WriteString(line)
		return
	}

	s.emit(line)
}

func (s *scanState) emit(statement string) {
	for _, pkg := range TopLevelPackages(statement) {
		s.imports = append(s.imports, models.ImportStatement{Raw: statement, Package: pkg})
	}
}

// TopLevelPackage returns the first dotted segment of the module an import statement names.
// It returns "" for relative imports and for text that is not an import.
func TopLevelPackage(statement string) string {
	m := topLevelPattern.FindStringSubmatch(strings.TrimSpace(statement))
	if m == nil {
		return ""
	}
	return m[1]
}

// TopLevelPackages returns every distinct top-level package named by a statement.
// "import a.b, c as d" yields [a c]; a from-import always yields one name.
func TopLevelPackages(statement string) []string {
	statement = strings.TrimSpace(statement)
	first := TopLevelPackage(statement)
	if first == "" {
		return nil
	}
	if !strings.HasPrefix(statement, "import") {
		return []string{first}
	}

	names := []string{first}
	seen := map[string]bool{first: true}

	rest := strings.TrimSpace(strings.TrimPrefix(statement, "import"))
	if hash := strings.Index(rest, "#"); hash >= 0 {
		rest = rest[:hash]
	}
	if semi := strings.Index(rest, ";"); semi >= 0 {
		rest = rest[:semi]
	}
	items := strings.Split(rest, ",")
	for _, item := range items[1:] {
		m := importListItem.FindStringSubmatch(strings.TrimSpace(item))
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}
