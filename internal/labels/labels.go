// Package labels resolves addresses to human-readable names from a static directory file.
package labels

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"token-flow-lab/internal/domain"
)

// ErrEmptyLabel is returned when a directory entry has a blank name.
var ErrEmptyLabel = errors.New("empty label")

// Directory maps lowercase addresses to display names.
type Directory map[string]string

// Load reads a directory file. Both YAML and JSON objects are accepted:
//
//	"0x28c6c06298d514db089934071355e5743bf21d60": "Binance 14"
//
// Keys are validated and lowercased; a missing file is reported as an error.
func Load(path string) (Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return Parse(data)
}

// Parse decodes a directory document.
func Parse(data []byte) (Directory, error) {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}

	dir := make(Directory, len(raw))
	for key, name := range raw {
		addr, err := domain.NormalizeAddress(key)
		if err != nil {
			return nil, fmt.Errorf("label key %q: %w", key, err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("label key %q: %w", key, ErrEmptyLabel)
		}
		dir[addr] = name
	}
	return dir, nil
}

// Lookup returns the name of addr, matching case-insensitively.
func (d Directory) Lookup(addr string) (string, bool) {
	name, ok := d[strings.ToLower(addr)]
	return name, ok
}

// Subset returns the labels of the given addresses that have one.
// The result is never nil.
func (d Directory) Subset(addresses []string) map[string]string {
	out := make(map[string]string)
	for _, addr := range addresses {
		if name, ok := d.Lookup(addr); ok {
			out[strings.ToLower(addr)] = name
		}
	}
	return out
}
