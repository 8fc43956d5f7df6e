// Package config defines the JSON-serializable configuration model for a
// court-returns analysis run: where the raw returns come from, how they are
// parsed and cleaned, the reference data that drives classification, the
// reporting period, and where the result tables go.
//
// Example (trimmed):
//
//	{
//	  "job":      "hc-2023-24",
//	  "source":   { "kind": "dir", "dir": { "path": "data/hc", "recursive": true,
//	                "start_year": 2023, "end_year": 2024 }, "court_from": "dir" },
//	  "parser":   { "kind": "auto", "options": { "skip_rows": 4 } },
//	  "analysis": { "period_start": "2023-07-01", "period_end": "2024-06-30" },
//	  "output":   { "dir": "./output",
//	                "storage": { "kind": "sqlite", "dsn": "file:haki.db" } }
//	}
//
// The optional "reference" block replaces the built-in reference data as a
// whole. An explicitly empty criminal_case_types list is honored (every case
// is then classified as Criminal), so omit the block to get the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/golang-sql/civil"

	"github.com/namatanda/haki-data/internal/category"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	Source   Source        `json:"source"`
	Parser   Parser        `json:"parser"`
	Clean    Clean         `json:"clean"`
	Analysis Analysis      `json:"analysis"`
	Output   Output        `json:"output"`
	Runtime  RuntimeConfig `json:"runtime"`

	// Reference overrides the built-in reference data when present.
	Reference *Reference `json:"reference,omitempty"`
}

// RuntimeConfig controls the parallel file-loading pool.
type RuntimeConfig struct {
	// ReaderWorkers bounds concurrent file reads; 0 means GOMAXPROCS.
	ReaderWorkers int `json:"reader_workers"`
}

// Source identifies where the returns are read from.
type Source struct {
	// Kind is "file" (single file), "dir" (discovered files) or "list" (a
	// text file naming one input path per line).
	Kind string `json:"kind"`

	File SourceFile `json:"file"`
	Dir  SourceDir  `json:"dir"`
	List SourceList `json:"list"`

	// CourtFrom selects how the court column is filled: "column" keeps the
	// value read from the file, "dir" and "filename" derive it from the path.
	CourtFrom string `json:"court_from"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// SourceList holds configuration for the "list" source kind. Relative entries
// are resolved against the list file's directory.
type SourceList struct {
	Path string `json:"path"`
}

// SourceDir holds configuration for the "dir" source kind.
type SourceDir struct {
	Path       string   `json:"path"`
	Recursive  bool     `json:"recursive"`
	StartYear  int      `json:"start_year"`
	EndYear    int      `json:"end_year"`
	Extensions []string `json:"extensions"`
}

// Parser selects the reader. Kind is "csv", "xlsx" or "auto" (by extension).
type Parser struct {
	Kind string `json:"kind"`

	// Options is interpreted by the reader. CSV keys: has_header, comma,
	// trim_space, lazy_quotes, fields_per_record, header_map. XLSX keys:
	// sheet, skip_rows, columns, header_map.
	Options Options `json:"options"`
}

// Clean configures the cleaning chain applied before classification.
type Clean struct {
	// Required lists columns that must be present in the schema and non-null
	// on a row for the row to be kept.
	Required []string `json:"required"`

	// Dedup is "exact" (drop full-row duplicates), "none", or one of the
	// keyed policies "keep-first", "keep-last" and "most-complete", which
	// need DedupKeys.
	Dedup string `json:"dedup"`

	// DedupKeys are the columns forming a case key for the keyed policies,
	// e.g. court, caseid_type, caseid_no and the activity date parts.
	DedupKeys []string `json:"dedup_keys"`

	// PreferFields weigh more heavily under "most-complete".
	PreferFields []string `json:"prefer_fields"`

	// TitleCase lists columns rewritten in title case.
	TitleCase []string `json:"title_case"`

	// Replace maps column -> raw value -> replacement.
	Replace map[string]map[string]string `json:"replace"`

	// NullValues are textual markers treated as a null cell.
	NullValues []string `json:"null_values"`

	// CourtNameMap holds substring replacements applied to court names.
	CourtNameMap map[string]string `json:"court_name_map"`

	// CourtFirstToken keeps only the first word of a court name after the
	// replacements.
	CourtFirstToken bool `json:"court_first_token"`

	// CourtPrefix is removed (case-insensitively) from court names.
	CourtPrefix string `json:"court_prefix"`
}

// Analysis configures the reporting period for windowed tables.
type Analysis struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// Period parses the reporting period bounds.
func (a Analysis) Period() (civil.Date, civil.Date, error) {
	start, err := civil.ParseDate(strings.TrimSpace(a.PeriodStart))
	if err != nil {
		return civil.Date{}, civil.Date{}, fmt.Errorf("period_start: %w", err)
	}
	end, err := civil.ParseDate(strings.TrimSpace(a.PeriodEnd))
	if err != nil {
		return civil.Date{}, civil.Date{}, fmt.Errorf("period_end: %w", err)
	}
	return start, end, nil
}

// Output selects where result tables are written.
type Output struct {
	// Dir receives one CSV file per result table. Empty disables CSV export.
	Dir string `json:"dir"`

	// Workbook, when set, is an .xlsx path receiving one sheet per table.
	Workbook string `json:"workbook"`

	// Storage optionally mirrors the result tables into a SQL database.
	Storage Storage `json:"storage"`
}

// Storage configures the optional SQL sink.
type Storage struct {
	// Kind is "sqlite", "postgres", "mssql", "mysql" or empty (disabled).
	Kind string `json:"kind"`

	// DSN is passed to the backend driver.
	DSN string `json:"dsn"`

	// TablePrefix is prepended to every result table name.
	TablePrefix string `json:"table_prefix"`
}

// Reference is the static reference data consumed by the classifier.
type Reference struct {
	CriminalCaseTypes []string         `json:"criminal_case_types"`
	BroadCaseTypes    category.Mapping `json:"broad_case_types"`
	ResolvedOutcomes  []string         `json:"resolved_outcomes"`
	MeritOutcomes     []string         `json:"merit_outcomes"`
	MeritCategories   category.Mapping `json:"merit_categories"`

	// TimeLimits maps a broad case type to its maximum age in days.
	TimeLimits map[string]int `json:"time_limits"`

	// NonAdjournable lists hearing purposes that cannot be adjourned.
	NonAdjournable []string `json:"non_adjournable"`
}

// Load reads and decodes a pipeline file, then applies defaults.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var p Pipeline
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	p.ApplyDefaults()
	return p, nil
}

// ApplyDefaults fills zero-valued sections with the built-in defaults.
func (p *Pipeline) ApplyDefaults() {
	if p.Source.CourtFrom == "" {
		p.Source.CourtFrom = "column"
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = "auto"
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	if len(p.Source.Dir.Extensions) == 0 {
		p.Source.Dir.Extensions = []string{".xlsx", ".csv"}
	}

	d := DefaultClean()
	if p.Clean.Required == nil {
		p.Clean.Required = d.Required
	}
	if p.Clean.Dedup == "" {
		p.Clean.Dedup = d.Dedup
	}
	if p.Clean.TitleCase == nil {
		p.Clean.TitleCase = d.TitleCase
	}
	if p.Clean.Replace == nil {
		p.Clean.Replace = d.Replace
	}
	if p.Clean.NullValues == nil {
		p.Clean.NullValues = d.NullValues
	}
	if p.Clean.CourtNameMap == nil {
		p.Clean.CourtNameMap = d.CourtNameMap
	}

	if p.Reference == nil {
		ref := DefaultReference()
		p.Reference = &ref
	}
}

// Options is a small helper to fetch typed values from arbitrary JSON maps.
// It performs only minimal type coercion and returns the provided defaults
// when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. encoding/json decodes numbers as
// float64, so both float64 and int are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of the string value for key, or def.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns the string-valued entries of the object at key.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// StringSlice returns the string elements of the array at key, or nil.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON decodes a missing or null options object to an empty map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
