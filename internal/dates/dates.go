// Package dates rebuilds calendar dates from the separate year, month and day
// columns found in court return spreadsheets.
//
// Assembly is tolerant: a row whose parts are missing, non-numeric or do not
// form a real calendar date gets a nil date. Only a part column that is absent
// from the schema is an error.
package dates

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"

	"github.com/namatanda/haki-data/pkg/records"
)

// Parts names the three source columns of a date.
type Parts struct {
	Year  string
	Month string
	Day   string
}

// Columns returns the part column names in year, month, day order.
func (p Parts) Columns() []string { return []string{p.Year, p.Month, p.Day} }

// Stats counts the assembled dates.
type Stats struct {
	Valid int
	Total int
}

// Invalid is the number of rows whose date could not be assembled.
func (s Stats) Invalid() int { return s.Total - s.Valid }

// AddDate assembles p for every row of tbl and stores the result under
// newCol as a civil.Date, or nil when the parts do not form a valid date.
func AddDate(tbl *records.Table, p Parts, newCol string) (Stats, error) {
	if err := tbl.Require(p.Columns()...); err != nil {
		return Stats{}, fmt.Errorf("assemble %s: %w", newCol, err)
	}

	st := Stats{Total: tbl.Len()}
	tbl.Set(newCol, func(r records.Record) any {
		y, _ := r.String(p.Year)
		m, _ := r.String(p.Month)
		d, _ := r.String(p.Day)
		date, ok := Assemble(y, m, d)
		if !ok {
			return nil
		}
		st.Valid++
		return date
	})

	log.Printf("dates: created %q valid=%d/%d", newCol, st.Valid, st.Total)
	return st, nil
}

// Assemble builds a date from textual parts. Year and day accept integral
// numbers written as text ("2023", "2023.0"); month additionally accepts
// English month names and abbreviations.
func Assemble(year, month, day string) (civil.Date, bool) {
	y, ok := wholeNumber(year)
	if !ok {
		return civil.Date{}, false
	}
	d, ok := wholeNumber(day)
	if !ok {
		return civil.Date{}, false
	}
	m, ok := parseMonth(month)
	if !ok {
		return civil.Date{}, false
	}
	if y < 1 || y > 9999 {
		return civil.Date{}, false
	}
	date, err := civil.ParseDate(fmt.Sprintf("%04d-%02d-%02d", y, m, d))
	if err != nil {
		return civil.Date{}, false
	}
	return date, true
}

// wholeNumber parses s as an integer, accepting float notation with no
// fractional part.
func wholeNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

var monthNames = func() map[string]time.Month {
	m := make(map[string]time.Month, 24)
	for i := time.January; i <= time.December; i++ {
		name := strings.ToLower(i.String())
		m[name] = i
		m[name[:3]] = i
	}
	m["sept"] = time.September
	return m
}()

func parseMonth(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, ok := wholeNumber(s); ok {
		if n < 1 || n > 12 {
			return 0, false
		}
		return n, true
	}
	if m, ok := monthNames[strings.ToLower(strings.TrimSuffix(s, "."))]; ok {
		return int(m), true
	}
	return 0, false
}

// Value extracts a date stored by AddDate from a record cell.
func Value(r records.Record, col string) *civil.Date {
	switch v := r[col].(type) {
	case civil.Date:
		return &v
	case *civil.Date:
		return v
	default:
		return nil
	}
}

// Quarter returns the calendar quarter label of d, e.g. "2023Q3".
func Quarter(d civil.Date) string {
	return fmt.Sprintf("%04dQ%d", d.Year, (int(d.Month)-1)/3+1)
}

// Month returns the "YYYY-MM" label of d.
func Month(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}
