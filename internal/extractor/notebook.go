package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/importspectre/internal/models"
)

type notebook struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// ExtractNotebook returns the imports found in the code cells of a Jupyter notebook.
// The multi-line import state resets at every cell boundary.
func ExtractNotebook(data []byte) ([]models.ImportStatement, error) {
	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}

	var imports []models.ImportStatement
	for i, cell := range nb.Cells {
		if cell.CellType != "code" {
			continue
		}
		code, err := cellSource(cell.Source)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		imports = append(imports, ExtractSource(code)...)
	}
	return imports, nil
}

// cellSource normalizes a cell source that is either a string or a list of strings.
func cellSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, ""), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("unsupported source type: %w", err)
	}
	return text, nil
}
