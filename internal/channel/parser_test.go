package channel

import "testing"

func TestParser_Parse(t *testing.T) {
	p := NewParser()

	tests := []struct {
		header   string
		display  string
		unit     string
		category string
	}{
		{"Pressure [bar]", "Pressure", "bar", "Pressure"},
		{"Flow Rate (lpm)", "Flow Rate", "L/min", "Flow"},
		{"TEMP_C", "TEMP", "°C", "Temperature"},
		{"Speed.RPM", "Speed", "rpm", "Speed"},
		{"Oil_Temp_C", "Oil Temp", "°C", "Temperature"},
		{"Voltage [mV]", "Voltage", "mV", "Voltage"},
		{"mystery", "mystery", "", "Unknown"},
		{"Torque [XYZ]", "Torque", "XYZ", "Force"},
	}

	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			meta := p.Parse(tc.header)
			if meta.OriginalName != tc.header {
				t.Errorf("OriginalName = %q, want %q", meta.OriginalName, tc.header)
			}
			if meta.DisplayName != tc.display {
				t.Errorf("DisplayName = %q, want %q", meta.DisplayName, tc.display)
			}
			if meta.Unit != tc.unit {
				t.Errorf("Unit = %q, want %q", meta.Unit, tc.unit)
			}
			if meta.Category != tc.category {
				t.Errorf("Category = %q, want %q", meta.Category, tc.category)
			}
		})
	}
}

func TestParser_CustomMatcherWins(t *testing.T) {
	p := NewParser()
	p.AddMatcher(MatcherFunc(func(header string) (*Metadata, bool) {
		if header != "CH01" {
			return nil, false
		}
		return &Metadata{
			OriginalName: header,
			DisplayName:  "Inlet Pressure",
			Unit:         "bar",
			Category:     "Pressure",
		}, true
	}))

	meta := p.Parse("CH01")
	if meta.DisplayName != "Inlet Pressure" {
		t.Errorf("custom matcher not used: %q", meta.DisplayName)
	}

	// Non-matching headers fall through to the default parse.
	meta = p.Parse("TEMP_C")
	if meta.Category != "Temperature" {
		t.Errorf("fallthrough parse broken: %q", meta.Category)
	}
}

func TestMetadata_Clone(t *testing.T) {
	m := &Metadata{OriginalName: "a", DisplayName: "A"}
	cp := m.Clone()
	cp.DisplayName = "B"
	if m.DisplayName != "A" {
		t.Error("clone shares storage with original")
	}
}
