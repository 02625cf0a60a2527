// Package report renders a comparison run's findings as JSON, Markdown, or a
// styled terminal summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"apidrift/internal/findings"
	"apidrift/internal/shared/util"
)

// WriteJSON renders the findings as a JSON array. An empty slice renders as
// [] rather than null so consumers can always parse an array.
func WriteJSON(w io.Writer, results []findings.Finding) error {
	if results == nil {
		results = []findings.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}
	return nil
}

// WriteJSONFile writes the JSON rendering to path, creating parent
// directories as needed.
func WriteJSONFile(path string, results []findings.Finding) error {
	if results == nil {
		results = []findings.Finding{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}
	return util.WriteFileWithDirs(path, append(data, '\n'), 0o644)
}
