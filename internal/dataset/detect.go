package dataset

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperrors "envcli/internal/errors"
)

// Canonical indicator names. Detection maps whatever header a logger
// produced onto one of these; unknown numeric columns keep their
// cleaned header text as the indicator name.
const (
	IndicatorTemperature = "temperature"
	IndicatorHumidity    = "humidity"
	IndicatorIlluminance = "illuminance"
)

// timestampAliases mark a header as the timestamp column. Matching is
// by containment on the cleaned header, so "记录时间" and "Time (UTC)"
// both qualify.
var timestampAliases = []string{
	"时间", "日期", "记录时间", "timestamp", "datetime", "date", "time",
}

// indicatorAliases map header fragments to canonical indicator names.
var indicatorAliases = map[string][]string{
	IndicatorTemperature: {"温度", "气温", "环境温度", "temperature", "temp"},
	IndicatorHumidity:    {"湿度", "相对湿度", "humidity"},
	IndicatorIlluminance: {"光照", "亮度", "光照强度", "illuminance", "lux", "light"},
}

// headerNoise strips whitespace, underscores and both ASCII and
// full-width parentheses before alias matching.
var headerNoise = regexp.MustCompile(`[\s_()（）]+`)

// cleanHeader lowercases a header cell and removes separator noise so
// "Temp_（℃）" compares as "temp℃".
func cleanHeader(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return headerNoise.ReplaceAllString(s, "")
}

// CanonicalIndicator resolves a header cell or user-supplied name to a
// canonical indicator name, or "" when no alias matches.
func CanonicalIndicator(header string) string {
	cleaned := cleanHeader(header)
	if cleaned == "" {
		return ""
	}
	// Stable iteration keeps detection deterministic when a header
	// somehow matches more than one alias set.
	for _, name := range []string{IndicatorTemperature, IndicatorHumidity, IndicatorIlluminance} {
		for _, alias := range indicatorAliases[name] {
			if strings.Contains(cleaned, alias) {
				return name
			}
		}
	}
	return ""
}

// isTimestampHeader reports whether a header cell names the timestamp
// column.
func isTimestampHeader(header string) bool {
	cleaned := cleanHeader(header)
	if cleaned == "" {
		return false
	}
	for _, alias := range timestampAliases {
		if strings.Contains(cleaned, alias) {
			return true
		}
	}
	return false
}

// ColumnMap records which table columns feed the pipeline.
type ColumnMap struct {
	// Timestamp is the index of the timestamp column.
	Timestamp int

	// Indicators maps indicator name to column index.
	Indicators map[string]int

	// Strategy names the detection strategy that produced the map.
	Strategy string
}

// IndicatorNames returns the detected indicator names in sorted order.
func (m *ColumnMap) IndicatorNames() []string {
	names := make([]string, 0, len(m.Indicators))
	for name := range m.Indicators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strategy resolves table columns. Strategies are tried in priority
// order; the first one that finds a timestamp column and at least one
// indicator wins.
type Strategy interface {
	Name() string
	Detect(t *Table) (*ColumnMap, bool)
}

// defaultStrategies is the detection priority order.
var defaultStrategies = []Strategy{
	headerNameMatch{},
	firstParseableColumn{},
}

// DetectColumns resolves the timestamp and indicator columns of a
// table. It fails with a malformed-input error when no strategy can
// locate a timestamp column alongside at least one indicator.
func DetectColumns(t *Table) (*ColumnMap, error) {
	if t == nil || len(t.Header) == 0 {
		return nil, apperrors.NewMalformedInputError("table has no header row", nil)
	}

	for _, s := range defaultStrategies {
		if m, ok := s.Detect(t); ok {
			m.Strategy = s.Name()
			return m, nil
		}
	}

	return nil, apperrors.NewMalformedInputError(
		fmt.Sprintf("no timestamp column found in %d columns", len(t.Header)), nil)
}

// headerNameMatch resolves columns purely from header aliases.
type headerNameMatch struct{}

func (headerNameMatch) Name() string { return "header_name_match" }

func (headerNameMatch) Detect(t *Table) (*ColumnMap, bool) {
	m := &ColumnMap{Timestamp: -1, Indicators: make(map[string]int)}

	for i, h := range t.Header {
		if m.Timestamp < 0 && isTimestampHeader(h) {
			m.Timestamp = i
			continue
		}
		if name := CanonicalIndicator(h); name != "" {
			if _, taken := m.Indicators[name]; !taken {
				m.Indicators[name] = i
			}
		}
	}

	if m.Timestamp < 0 || len(m.Indicators) == 0 {
		return nil, false
	}
	return m, true
}

// probeRowLimit caps how many data rows the content heuristic samples.
const probeRowLimit = 25

// firstParseableColumn ignores header text and probes cell content: the
// first column whose sampled cells parse as timestamps becomes the
// timestamp column, and every later column whose sampled cells parse as
// numbers becomes an indicator named after its cleaned header.
type firstParseableColumn struct{}

func (firstParseableColumn) Name() string { return "first_parseable_column" }

func (firstParseableColumn) Detect(t *Table) (*ColumnMap, bool) {
	if t.IsEmpty() {
		return nil, false
	}

	m := &ColumnMap{Timestamp: -1, Indicators: make(map[string]int)}

	for col := 0; col < t.ColumnCount(); col++ {
		sampled, hits := probeColumn(t, col, looksLikeTimestamp)
		if sampled > 0 && hits*2 > sampled {
			m.Timestamp = col
			break
		}
	}
	if m.Timestamp < 0 {
		return nil, false
	}

	for col := 0; col < t.ColumnCount(); col++ {
		if col == m.Timestamp {
			continue
		}
		sampled, hits := probeColumn(t, col, looksLikeNumber)
		if sampled == 0 || hits*2 <= sampled {
			continue
		}
		name := indicatorNameFor(t, col)
		if _, taken := m.Indicators[name]; !taken {
			m.Indicators[name] = col
		}
	}

	if len(m.Indicators) == 0 {
		return nil, false
	}
	return m, true
}

// probeColumn samples up to probeRowLimit non-empty cells of a column
// and counts how many satisfy the predicate.
func probeColumn(t *Table, col int, match func(string) bool) (sampled, hits int) {
	for row := 0; row < t.RowCount() && sampled < probeRowLimit; row++ {
		cell := t.Cell(row, col)
		if cell == "" {
			continue
		}
		sampled++
		if match(cell) {
			hits++
		}
	}
	return sampled, hits
}

func looksLikeNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return err == nil
}

// indicatorNameFor names a content-detected column: the canonical
// alias when one matches, otherwise the cleaned header, otherwise a
// positional fallback.
func indicatorNameFor(t *Table, col int) string {
	header := ""
	if col < len(t.Header) {
		header = t.Header[col]
	}
	if name := CanonicalIndicator(header); name != "" {
		return name
	}
	if cleaned := cleanHeader(header); cleaned != "" {
		return cleaned
	}
	return fmt.Sprintf("column%d", col+1)
}
