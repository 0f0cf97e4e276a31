package summary

import (
	"encoding/json"
	"fmt"

	"token-flow-lab/internal/domain"
	"token-flow-lab/internal/fileutil"
)

// WriteFile writes doc as indented JSON, replacing path atomically.
func WriteFile(path string, doc *domain.Summary) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')

	return fileutil.WriteAtomic(path, data, 0o644)
}
