// Package cases holds the typed case dataset that classification mutates and
// aggregation reads.
//
// A Dataset is built once from a cleaned records.Table. It tracks which
// columns exist so that stages and reports can fail with a schema error when
// a column they depend on was never loaded or derived.
package cases

import (
	"sort"
	"strings"

	"github.com/golang-sql/civil"

	"github.com/namatanda/haki-data/internal/category"
	"github.com/namatanda/haki-data/internal/dates"
	"github.com/namatanda/haki-data/pkg/records"
)

// Raw and assembled columns.
const (
	ColCourt        = "court"
	ColCaseType     = "case_type"
	ColCaseNumber   = "case_number"
	ColOutcome      = "outcome"
	ColComingFor    = "comingfor"
	ColReasonAdj    = "reason_adj"
	ColFiledDate    = "filed_date"
	ColActivityDate = "activity_date"
	ColNextDate     = "next_date"

	ColCaseIDType = "caseid_type"
	ColCaseIDNo   = "caseid_no"
	ColFiledYear  = "filed_yyyy"
)

// Derived columns, one per classification stage.
const (
	ColCaseAge         = "case_age"
	ColNature          = "nature"
	ColBroadCaseType   = "broad_case_type"
	ColMeritCategory   = "merit_category"
	ColConcluded       = "concluded"
	ColRegistered      = "registered"
	ColProductivity    = "productivity_category"
	ColWithinTimeLimit = "within_time_limit"
	ColAdjournable     = "adjournable"
	ColAdjourned       = "adjourned"
)

// Nature is the criminal/civil split of a case type.
type Nature string

const (
	Criminal Nature = "Criminal"
	Civil    Nature = "Civil"
)

// Productivity classifies concluded cases by whether they were decided on
// their merits. The zero value means "not concluded".
type Productivity string

const (
	NoProductivity Productivity = ""
	Merit          Productivity = "Merit"
	NonMerit       Productivity = "NonMerit"
)

// Label is the display name used as a report column.
func (p Productivity) Label() string {
	switch p {
	case Merit:
		return "Merit"
	case NonMerit:
		return "Non_Merit"
	default:
		return ""
	}
}

// Case is one hearing record of a court return.
type Case struct {
	Court      string
	CaseType   string
	CaseNumber string
	Outcome    string
	ComingFor  string
	ReasonAdj  *string

	FiledDate    *civil.Date
	ActivityDate *civil.Date
	NextDate     *civil.Date

	CaseAge       *int
	Nature        Nature
	BroadCaseType category.Match
	MeritCategory category.Match
	Concluded     bool
	Registered    bool
	Productivity  Productivity

	WithinTimeLimit bool
	Adjournable     bool
	Adjourned       bool
}

// Bool returns the value of a boolean derived column. ok is false when col is
// not a boolean column.
func (c *Case) Bool(col string) (v bool, ok bool) {
	switch col {
	case ColConcluded:
		return c.Concluded, true
	case ColRegistered:
		return c.Registered, true
	case ColWithinTimeLimit:
		return c.WithinTimeLimit, true
	case ColAdjournable:
		return c.Adjournable, true
	case ColAdjourned:
		return c.Adjourned, true
	}
	return false, false
}

// IsBoolColumn reports whether col names a boolean derived column.
func IsBoolColumn(col string) bool {
	_, ok := (&Case{}).Bool(col)
	return ok
}

// Dataset is the set of cases plus the columns known to be present.
type Dataset struct {
	Cases []*Case
	cols  map[string]struct{}
}

// New returns a dataset over cs with the given columns marked present.
func New(cs []*Case, cols ...string) *Dataset {
	d := &Dataset{Cases: cs, cols: make(map[string]struct{}, len(cols)+10)}
	d.Mark(cols...)
	return d
}

// Len returns the number of cases.
func (d *Dataset) Len() int { return len(d.Cases) }

// Has reports whether col is present.
func (d *Dataset) Has(col string) bool {
	_, ok := d.cols[col]
	return ok
}

// Mark records cols as present. Columns are never removed.
func (d *Dataset) Mark(cols ...string) {
	for _, c := range cols {
		d.cols[c] = struct{}{}
	}
}

// Require returns a *records.SchemaError naming the absent columns, or nil.
func (d *Dataset) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !d.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &records.SchemaError{Missing: missing}
	}
	return nil
}

// Columns returns the present columns in sorted order.
func (d *Dataset) Columns() []string {
	out := make([]string, 0, len(d.cols))
	for c := range d.cols {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// FromTable converts a cleaned, date-assembled table into a Dataset. The
// court, case_type and outcome columns are mandatory; the others are carried
// over when present.
func FromTable(tbl *records.Table) (*Dataset, error) {
	if err := tbl.Require(ColCourt, ColCaseType, ColOutcome); err != nil {
		return nil, err
	}

	carried := []string{
		ColCourt, ColCaseType, ColOutcome, ColComingFor, ColReasonAdj,
		ColFiledDate, ColActivityDate, ColNextDate, ColCaseNumber,
	}
	var present []string
	for _, c := range carried {
		if tbl.HasColumn(c) {
			present = append(present, c)
		}
	}
	buildNumber := !tbl.HasColumn(ColCaseNumber) &&
		tbl.HasColumn(ColCaseIDType) && tbl.HasColumn(ColCaseIDNo) && tbl.HasColumn(ColFiledYear)
	if buildNumber {
		present = append(present, ColCaseNumber)
	}

	cs := make([]*Case, 0, tbl.Len())
	for _, r := range tbl.Rows {
		c := &Case{
			Court:        str(r, ColCourt),
			CaseType:     str(r, ColCaseType),
			CaseNumber:   str(r, ColCaseNumber),
			Outcome:      str(r, ColOutcome),
			ComingFor:    str(r, ColComingFor),
			FiledDate:    dates.Value(r, ColFiledDate),
			ActivityDate: dates.Value(r, ColActivityDate),
			NextDate:     dates.Value(r, ColNextDate),
		}
		if s, ok := r.String(ColReasonAdj); ok {
			c.ReasonAdj = &s
		}
		if buildNumber {
			c.CaseNumber = CaseNumber(r)
		}
		cs = append(cs, c)
	}
	return New(cs, present...), nil
}

// CaseNumber builds the court/type/number/year identifier of a raw row.
// Missing parts are left empty.
func CaseNumber(r records.Record) string {
	parts := []string{
		str(r, ColCourt),
		str(r, ColCaseIDType),
		wholeText(str(r, ColCaseIDNo)),
		wholeText(str(r, ColFiledYear)),
	}
	return strings.Join(parts, "/")
}

func str(r records.Record, col string) string {
	s, _ := r.String(col)
	return s
}

// wholeText drops a trailing ".0" left by spreadsheet numeric cells.
func wholeText(s string) string {
	return strings.TrimSuffix(s, ".0")
}
