// Package ledger reads normalized monthly records from JSON or YAML files.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"fincast/pkg/core/utils"
	"fincast/pkg/models"
)

// Ledger is a labeled, chronologically ordered run of monthly records.
type Ledger struct {
	Label   string                 `json:"label" yaml:"label"`
	Records []models.MonthlyRecord `json:"data" yaml:"data"`
}

// Load reads a ledger file. The format follows the extension (.yaml/.yml
// or JSON otherwise). The document may be a {label, data} object or a bare
// array of records; a bare array is labeled with the file name.
func Load(path string) (*Ledger, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var l *Ledger
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		l, err = parseYAML(raw)
	default:
		l, err = ParseJSON(string(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if l.Label == "" {
		l.Label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return l, nil
}

// ParseJSON decodes a ledger, tolerating hand-edit mistakes in the JSON.
func ParseJSON(text string) (*Ledger, error) {
	var l Ledger
	if _, err := utils.DecodeLenient(text, &l); err == nil && len(l.Records) > 0 {
		return &l, nil
	}

	var records []models.MonthlyRecord
	if _, err := utils.DecodeLenient(text, &records); err != nil {
		return nil, fmt.Errorf("not a ledger object or record array: %w", err)
	}
	return &Ledger{Records: records}, nil
}

func parseYAML(raw []byte) (*Ledger, error) {
	var l Ledger
	if err := yaml.Unmarshal(raw, &l); err == nil && len(l.Records) > 0 {
		return &l, nil
	}

	var records []models.MonthlyRecord
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("not a ledger object or record array: %w", err)
	}
	return &Ledger{Records: records}, nil
}
