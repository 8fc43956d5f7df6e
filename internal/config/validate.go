package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/namatanda/haki-data/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to users but
	// does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "source.dir.start_year",
// "analysis.period_end"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
//
//	p, err := config.Load(path)
//	if err != nil { ... }
//	for _, iss := range config.ValidatePipeline(p) {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateClean(p.Clean)...)
	issues = append(issues, validateAnalysis(p.Analysis)...)
	issues = append(issues, validateOutput(p.Output)...)
	issues = append(issues, validateRuntime(p.Runtime)...)
	if p.Reference != nil {
		issues = append(issues, validateReference(*p.Reference)...)
	}
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	switch s.Kind {
	case "":
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "dir":
		if strings.TrimSpace(s.Dir.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.dir.path",
				Message:  "dir source requires a non-empty path",
			})
		}
		if s.Dir.Recursive {
			if s.Dir.StartYear <= 0 || s.Dir.EndYear <= 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "source.dir.start_year",
					Message:  "recursive discovery requires start_year and end_year",
				})
			} else if s.Dir.StartYear > s.Dir.EndYear {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "source.dir.end_year",
					Message:  fmt.Sprintf("end_year %d is before start_year %d", s.Dir.EndYear, s.Dir.StartYear),
				})
			}
		}
		for i, ext := range s.Dir.Extensions {
			if !strings.HasPrefix(ext, ".") {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     fmt.Sprintf("source.dir.extensions[%d]", i),
					Message:  fmt.Sprintf("extension %q has no leading dot and will never match", ext),
				})
			}
		}
	case "list":
		if strings.TrimSpace(s.List.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.list.path",
				Message:  "list source requires a non-empty path",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q (want file, dir or list)", s.Kind),
		})
	}

	switch s.CourtFrom {
	case "", "column", "dir", "filename":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.court_from",
			Message:  fmt.Sprintf("unknown court_from %q (want column, dir or filename)", s.CourtFrom),
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue

	switch p.Kind {
	case "", "auto", "csv", "xlsx":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unknown parser kind %q (want csv, xlsx or auto)", p.Kind),
		})
	}
	if n := p.Options.Int("skip_rows", 0); n < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.skip_rows",
			Message:  "skip_rows must not be negative",
		})
	}
	return issues
}

func validateClean(c Clean) []Issue {
	var issues []Issue

	switch c.Dedup {
	case "", "exact", "none":
		if len(c.DedupKeys) > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "clean.dedup_keys",
				Message:  fmt.Sprintf("dedup_keys are ignored by policy %q", c.Dedup),
			})
		}
	case "keep-first", "keep-last", "most-complete":
		if len(c.DedupKeys) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "clean.dedup_keys",
				Message:  fmt.Sprintf("dedup policy %q needs at least one key column", c.Dedup),
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "clean.dedup",
			Message: fmt.Sprintf("unknown dedup policy %q (want exact, none, keep-first, keep-last or most-complete)",
				c.Dedup),
		})
	}
	if len(c.PreferFields) > 0 && c.Dedup != "most-complete" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "clean.prefer_fields",
			Message:  "prefer_fields only apply to the most-complete policy",
		})
	}
	if c.Required != nil && len(c.Required) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "clean.required",
			Message:  "no required columns; rows with missing dates and case types will reach classification",
		})
	}
	return issues
}

func validateAnalysis(a Analysis) []Issue {
	start, end, err := a.Period()
	if err != nil {
		return []Issue{{
			Severity: SeverityError,
			Path:     "analysis",
			Message:  fmt.Sprintf("invalid reporting period: %v", err),
		}}
	}
	if end.Before(start) {
		return []Issue{{
			Severity: SeverityError,
			Path:     "analysis.period_end",
			Message:  fmt.Sprintf("period_end %s is before period_start %s", end, start),
		}}
	}
	return nil
}

func validateOutput(o Output) []Issue {
	var issues []Issue

	kind := o.Storage.Kind
	if strings.TrimSpace(o.Dir) == "" && strings.TrimSpace(o.Workbook) == "" && kind == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output",
			Message:  "none of output.dir, output.workbook or output.storage is set; results are only logged",
		})
	}
	if wb := strings.TrimSpace(o.Workbook); wb != "" && !strings.EqualFold(filepath.Ext(wb), ".xlsx") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.workbook",
			Message:  fmt.Sprintf("workbook %q must have an .xlsx extension", wb),
		})
	}
	if kind == "" {
		return issues
	}

	if known := storage.ListKinds(); !slices.Contains(known, kind) {
		registered := "none"
		if len(known) > 0 {
			registered = strings.Join(known, ", ")
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (registered: %s)", kind, registered),
		})
	}
	if strings.TrimSpace(o.Storage.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.storage.dsn",
			Message:  "output.storage.dsn must not be empty",
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	if r.ReaderWorkers < 0 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "runtime.reader_workers",
			Message:  "reader_workers must not be negative",
		}}
	}
	return nil
}

func validateReference(r Reference) []Issue {
	var issues []Issue

	if len(r.CriminalCaseTypes) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "reference.criminal_case_types",
			Message:  "empty criminal case list; every case will be classified as Criminal",
		})
	}
	for name, days := range r.TimeLimits {
		if days < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("reference.time_limits.%s", name),
				Message:  fmt.Sprintf("time limit %d must not be negative", days),
			})
		}
		if len(r.BroadCaseTypes) > 0 && !containsString(r.BroadCaseTypes.Names(), name) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("reference.time_limits.%s", name),
				Message:  fmt.Sprintf("%q is not a broad case type; the limit will never apply", name),
			})
		}
	}
	return issues
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
