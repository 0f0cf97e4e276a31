package reporting

import (
	"fmt"
	"path/filepath"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/fileutil"
)

// Report file names written by Generator.
const (
	MarkdownFile   = "summary.md"
	FlowsCSVFile   = "flows.csv"
	HoldersCSVFile = "holders.csv"
)

// Generator writes the human-readable exports of a summary document into a directory.
type Generator struct {
	dir string
}

// NewGenerator creates a new report generator writing into dir.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Generate renders doc and writes every export. It returns the written paths.
// Each file is replaced atomically; a failure leaves earlier files in place.
func (g *Generator) Generate(doc *domain.Summary) ([]string, error) {
	r := FromSummary(doc)

	flows, err := RenderFlowsCSV(r)
	if err != nil {
		return nil, fmt.Errorf("render flows csv: %w", err)
	}
	holders, err := RenderHoldersCSV(r)
	if err != nil {
		return nil, fmt.Errorf("render holders csv: %w", err)
	}

	outputs := []struct {
		name string
		data string
	}{
		{MarkdownFile, RenderMarkdown(r)},
		{FlowsCSVFile, flows},
		{HoldersCSVFile, holders},
	}

	var written []string
	for _, out := range outputs {
		path := filepath.Join(g.dir, out.name)
		if err := fileutil.WriteAtomic(path, []byte(out.data), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", out.name, err)
		}
		written = append(written, path)
	}

	return written, nil
}
