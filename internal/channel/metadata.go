// Package channel provides channel (column) metadata and header name
// parsing. A parser turns a raw header like "TEMP_C" or "Pressure [bar]"
// into a display name, unit, and category for grouping and search.
package channel

// Metadata describes a single channel parsed from a header name.
type Metadata struct {
	OriginalName string `json:"original_name"`
	DisplayName  string `json:"display_name"`
	Unit         string `json:"unit"`
	Category     string `json:"category"`
	Description  string `json:"description"`
}

// Clone returns a copy of the metadata.
func (m *Metadata) Clone() *Metadata {
	cp := *m
	return &cp
}
