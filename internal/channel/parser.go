package channel

import (
	"regexp"
	"strings"
)

// categoryKeywords maps a category to the lowercase substrings that
// identify it. Checked in order so the first matching category wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Temperature", []string{"temp", "temperature", "therm", "tc", "rtd"}},
	{"Pressure", []string{"press", "pressure", "psi", "bar", "kpa", "mpa"}},
	{"Flow", []string{"flow", "rate", "volume", "gpm", "lpm", "cfm"}},
	{"Voltage", []string{"volt", "voltage", "v", "mv", "potential"}},
	{"Current", []string{"current", "amp", "ampere", "ma", "ua"}},
	{"Speed", []string{"speed", "rpm", "velocity", "freq", "frequency", "hz"}},
	{"Position", []string{"pos", "position", "angle", "deg", "rad", "distance"}},
	{"Force", []string{"force", "torque", "load", "nm", "lbf", "newton"}},
	{"Time", []string{"time", "timestamp", "date", "elapsed"}},
	{"Acceleration", []string{"accel", "acceleration", "g", "vibration"}},
	{"Power", []string{"power", "watt", "kw", "hp", "energy"}},
}

// unitPatterns extract a unit suffix from a header name. Tried in order.
var unitPatterns = []*regexp.Regexp{
	// Name [Unit]
	regexp.MustCompile(`^(?P<name>.+?)\s*\[(?P<unit>[^\]]+)\]$`),
	// Name (Unit)
	regexp.MustCompile(`^(?P<name>.+?)\s*\((?P<unit>[^)]+)\)$`),
	// Name_UNIT, e.g. TEMP_C, PRESS_PSI
	regexp.MustCompile(`^(?P<name>.+?)_(?P<unit>[A-Za-z]{1,5})$`),
	// Name.Unit
	regexp.MustCompile(`^(?P<name>.+?)\.(?P<unit>[A-Za-z]{1,5})$`),
}

// knownUnits normalizes common lowercase unit spellings to display form.
var knownUnits = map[string]string{
	"c": "°C", "f": "°F", "k": "K",
	"bar": "bar", "psi": "psi", "kpa": "kPa", "mpa": "MPa", "pa": "Pa",
	"v": "V", "mv": "mV", "kv": "kV",
	"a": "A", "ma": "mA", "ua": "µA",
	"s": "s", "ms": "ms", "us": "µs", "min": "min", "h": "h",
	"m": "m", "mm": "mm", "cm": "cm", "km": "km", "in": "in", "ft": "ft",
	"kg": "kg", "g": "g", "mg": "mg", "lb": "lb",
	"n": "N", "kn": "kN", "lbf": "lbf",
	"nm": "N·m", "ftlb": "ft·lb",
	"rpm": "rpm", "hz": "Hz", "khz": "kHz",
	"l": "L", "ml": "mL", "gal": "gal",
	"lpm": "L/min", "gpm": "gal/min", "cfm": "ft³/min",
	"w": "W", "kw": "kW", "mw": "MW", "hp": "hp",
	"deg": "°", "rad": "rad",
	"%": "%", "pct": "%", "percent": "%",
}

// Matcher is a pluggable header matcher. TryParse returns the metadata for
// a header it recognizes, or ok=false to pass the header to the next
// matcher in the chain.
type Matcher interface {
	TryParse(header string) (*Metadata, bool)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(header string) (*Metadata, bool)

// TryParse implements Matcher.
func (fn MatcherFunc) TryParse(header string) (*Metadata, bool) { return fn(header) }

// Parser parses header names into channel metadata. Custom matchers are
// tried in registration order before the built-in pattern and keyword
// inference.
type Parser struct {
	matchers []Matcher
}

// NewParser creates a parser with no custom matchers.
func NewParser() *Parser {
	return &Parser{}
}

// AddMatcher appends a custom matcher to the chain.
func (p *Parser) AddMatcher(m Matcher) {
	p.matchers = append(p.matchers, m)
}

// Parse returns the metadata for a header name. It never fails; headers
// that match nothing get the raw name back with category "Unknown".
func (p *Parser) Parse(header string) *Metadata {
	for _, m := range p.matchers {
		if meta, ok := m.TryParse(header); ok {
			return meta
		}
	}
	return defaultParse(header)
}

func defaultParse(header string) *Metadata {
	displayName := header
	unit := ""

	for _, pattern := range unitPatterns {
		match := pattern.FindStringSubmatch(header)
		if match == nil {
			continue
		}
		displayName = strings.TrimSpace(match[1])
		rawUnit := strings.TrimSpace(match[2])
		if known, ok := knownUnits[strings.ToLower(rawUnit)]; ok {
			unit = known
		} else {
			unit = rawUnit
		}
		break
	}

	displayName = strings.TrimSpace(strings.ReplaceAll(displayName, "_", " "))

	return &Metadata{
		OriginalName: header,
		DisplayName:  displayName,
		Unit:         unit,
		Category:     inferCategory(displayName),
	}
}

func inferCategory(displayName string) string {
	nameLower := strings.ToLower(displayName)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(nameLower, kw) {
				return entry.category
			}
		}
	}
	return "Unknown"
}
