// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/echoml/echo-tui/internal/model"
)

// JSONExporter renders a session as indented JSON. The document wraps
// the session in an envelope carrying export metadata, so consumers
// can tell an export apart from a raw state file.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Format implements Exporter.
func (e *JSONExporter) Format() Format {
	return FormatJSON
}

type jsonEnvelope struct {
	Generator  string         `json:"generator"`
	ExportedAt time.Time      `json:"exported_at"`
	Session    *model.Session `json:"session"`
}

// Export implements Exporter.
func (e *JSONExporter) Export(s *model.Session) ([]byte, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	doc := jsonEnvelope{
		Generator:  "echo",
		ExportedAt: time.Now().UTC(),
		Session:    s,
	}
	return json.MarshalIndent(doc, "", "  ")
}
