// Package classify derives the analytical columns of a case dataset: case
// age, nature, broad category, merit category, conclusion, registration,
// productivity, time-limit compliance and adjournment.
//
// Every stage is a pure function of a fixed set of input columns. A stage
// checks its inputs up front: a missing raw column is a *records.SchemaError,
// a missing derived column means a prerequisite stage has not run and yields
// ErrStageOrder. Row-level gaps (null dates, unmapped case types) degrade to
// zero values and are counted, never raised.
package classify

import (
	"errors"
	"fmt"
	"log"
	"strings"

	xcases "golang.org/x/text/cases"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/category"
	"github.com/namatanda/haki-data/internal/config"
)

// ErrStageOrder is returned when a stage runs before the stages it reads from.
var ErrStageOrder = errors.New("classification stage out of order")

// Classifier holds the reference data injected into every stage.
type Classifier struct {
	criminal       map[string]struct{}
	allCriminal    bool
	broad          category.Mapping
	merit          category.Mapping
	resolved       map[string]struct{}
	meritOutcomes  map[string]struct{}
	limits         map[string]int
	nonAdjournable map[string]struct{}
	fold           xcases.Caser
}

// New builds a Classifier from ref. An empty criminal case list puts the
// classifier in all-Criminal mode.
func New(ref config.Reference) *Classifier {
	c := &Classifier{
		criminal:       set(ref.CriminalCaseTypes, nil),
		allCriminal:    len(ref.CriminalCaseTypes) == 0,
		broad:          ref.BroadCaseTypes,
		merit:          ref.MeritCategories,
		limits:         ref.TimeLimits,
		nonAdjournable: set(ref.NonAdjournable, strings.TrimSpace),
		fold:           xcases.Fold(),
	}
	c.resolved = set(ref.ResolvedOutcomes, c.normalize)
	c.meritOutcomes = set(ref.MeritOutcomes, c.normalize)
	if c.limits == nil {
		c.limits = map[string]int{}
	}
	return c
}

func set(xs []string, norm func(string) string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		if norm != nil {
			x = norm(x)
		}
		m[x] = struct{}{}
	}
	return m
}

// normalize collapses internal whitespace, trims and case-folds an outcome.
func (c *Classifier) normalize(s string) string {
	return c.fold.String(strings.Join(strings.Fields(s), " "))
}

func stageOrder(stage string, ds *cases.Dataset, cols ...string) error {
	for _, col := range cols {
		if !ds.Has(col) {
			return fmt.Errorf("%s: %w: %s not derived yet", stage, ErrStageOrder, col)
		}
	}
	return nil
}

// AddCaseAge sets case_age to activity_date - filed_date in days, or nil when
// either date is missing.
func (c *Classifier) AddCaseAge(ds *cases.Dataset) error {
	if err := ds.Require(cases.ColFiledDate, cases.ColActivityDate); err != nil {
		return fmt.Errorf("case age: %w", err)
	}
	nulls := 0
	for _, cs := range ds.Cases {
		cs.CaseAge = nil
		if cs.FiledDate == nil || cs.ActivityDate == nil {
			nulls++
			continue
		}
		age := cs.ActivityDate.DaysSince(*cs.FiledDate)
		cs.CaseAge = &age
	}
	ds.Mark(cases.ColCaseAge)
	if nulls > 0 {
		log.Printf("classify: case_age null for %d/%d rows (missing dates)", nulls, ds.Len())
	}
	return nil
}

// AddNature marks each case Criminal or Civil.
func (c *Classifier) AddNature(ds *cases.Dataset) error {
	if err := ds.Require(cases.ColCaseType); err != nil {
		return fmt.Errorf("nature: %w", err)
	}
	if c.allCriminal {
		log.Printf("classify: WARNING no criminal case types configured; every case is classified Criminal")
	}
	var criminal, civil int
	for _, cs := range ds.Cases {
		if c.IsCriminal(cs.CaseType) {
			cs.Nature = cases.Criminal
			criminal++
		} else {
			cs.Nature = cases.Civil
			civil++
		}
	}
	ds.Mark(cases.ColNature)
	if ds.Len() > 0 && (criminal == 0 || civil == 0) {
		log.Printf("classify: WARNING nature is one-sided (criminal=%d civil=%d)", criminal, civil)
	}
	return nil
}

// IsCriminal reports whether caseType is a criminal case type.
func (c *Classifier) IsCriminal(caseType string) bool {
	if c.allCriminal {
		return true
	}
	_, ok := c.criminal[caseType]
	return ok
}

// AddBroadCategory resolves case_type against the broad case type mapping.
func (c *Classifier) AddBroadCategory(ds *cases.Dataset) error {
	if err := ds.Require(cases.ColCaseType); err != nil {
		return fmt.Errorf("broad category: %w", err)
	}
	var unmapped, ambiguous int
	for _, cs := range ds.Cases {
		cs.BroadCaseType = c.broad.Resolve(cs.CaseType)
		switch cs.BroadCaseType.Kind() {
		case category.NoMatch:
			unmapped++
		case category.ManyMatches:
			ambiguous++
		}
	}
	ds.Mark(cases.ColBroadCaseType)
	if unmapped > 0 || ambiguous > 0 {
		log.Printf("classify: broad_case_type unmapped=%d ambiguous=%d of %d", unmapped, ambiguous, ds.Len())
	}
	return nil
}

// AddMeritCategory resolves outcome against the merit category mapping.
func (c *Classifier) AddMeritCategory(ds *cases.Dataset) error {
	if err := ds.Require(cases.ColOutcome); err != nil {
		return fmt.Errorf("merit category: %w", err)
	}
	for _, cs := range ds.Cases {
		cs.MeritCategory = c.merit.Resolve(cs.Outcome)
	}
	ds.Mark(cases.ColMeritCategory)
	return nil
}

// AddConclusion sets concluded when the normalized outcome is a resolved
// outcome.
func (c *Classifier) AddConclusion(ds *cases.Dataset) error {
	if err := ds.Require(cases.ColOutcome); err != nil {
		return fmt.Errorf("conclusion: %w", err)
	}
	for _, cs := range ds.Cases {
		cs.Concluded = c.IsResolved(cs.Outcome)
	}
	ds.Mark(cases.ColConcluded)
	return nil
}

// IsResolved reports whether outcome matches a resolved outcome, ignoring
// case and surrounding or repeated whitespace.
func (c *Classifier) IsResolved(outcome string) bool {
	_, ok := c.resolved[c.normalize(outcome)]
	return ok
}

// AddRegistration sets registered when the outcome mentions registration or
// filing and the activity happened on the filing date.
func (c *Classifier) AddRegistration(ds *cases.Dataset) error {
	if err := ds.Require(cases.ColOutcome, cases.ColFiledDate, cases.ColActivityDate); err != nil {
		return fmt.Errorf("registration: %w", err)
	}
	for _, cs := range ds.Cases {
		cs.Registered = IsRegistration(cs)
	}
	ds.Mark(cases.ColRegistered)
	return nil
}

// IsRegistration applies the registration rule to a single case.
func IsRegistration(cs *cases.Case) bool {
	if cs.FiledDate == nil || cs.ActivityDate == nil || *cs.FiledDate != *cs.ActivityDate {
		return false
	}
	o := strings.ToLower(strings.TrimSpace(cs.Outcome))
	return strings.Contains(o, "registered") || strings.Contains(o, "filed")
}

// AddProductivity splits concluded cases into Merit and NonMerit. Nature and
// conclusion must already be present.
func (c *Classifier) AddProductivity(ds *cases.Dataset) error {
	if err := stageOrder("productivity", ds, cases.ColNature, cases.ColConcluded); err != nil {
		return err
	}
	for _, cs := range ds.Cases {
		switch {
		case !cs.Concluded:
			cs.Productivity = cases.NoProductivity
		case c.isMerit(cs.Outcome):
			cs.Productivity = cases.Merit
		default:
			cs.Productivity = cases.NonMerit
		}
	}
	ds.Mark(cases.ColProductivity)
	return nil
}

func (c *Classifier) isMerit(outcome string) bool {
	_, ok := c.meritOutcomes[c.normalize(outcome)]
	return ok
}

// Limit returns the day limit of a broad category match. Anything other than
// a single category with a configured limit gets 0.
func (c *Classifier) Limit(m category.Match) int {
	if m.Kind() != category.OneMatch {
		return 0
	}
	return c.limits[m.Name()]
}

// AddTimeLimit sets within_time_limit for concluded cases whose age does not
// exceed the limit of their broad category.
func (c *Classifier) AddTimeLimit(ds *cases.Dataset) error {
	if err := stageOrder("time limit", ds, cases.ColCaseAge, cases.ColConcluded, cases.ColBroadCaseType); err != nil {
		return err
	}
	for _, cs := range ds.Cases {
		cs.WithinTimeLimit = cs.Concluded && cs.CaseAge != nil && *cs.CaseAge <= c.Limit(cs.BroadCaseType)
	}
	ds.Mark(cases.ColWithinTimeLimit)
	return nil
}

// AddAdjournment sets adjournable and adjourned from the hearing purpose and
// the adjournment reason.
func (c *Classifier) AddAdjournment(ds *cases.Dataset) error {
	if err := ds.Require(cases.ColComingFor, cases.ColReasonAdj); err != nil {
		return fmt.Errorf("adjournment: %w", err)
	}
	for _, cs := range ds.Cases {
		_, fixed := c.nonAdjournable[strings.TrimSpace(cs.ComingFor)]
		cs.Adjournable = !fixed
		cs.Adjourned = cs.Adjournable && cs.ReasonAdj != nil
	}
	ds.Mark(cases.ColAdjournable, cases.ColAdjourned)
	return nil
}

// ClassifyAll runs every stage in dependency order and returns the resulting
// counters.
func (c *Classifier) ClassifyAll(ds *cases.Dataset) (Counts, error) {
	stages := []struct {
		name string
		fn   func(*cases.Dataset) error
	}{
		{"case_age", c.AddCaseAge},
		{"nature", c.AddNature},
		{"broad_case_type", c.AddBroadCategory},
		{"merit_category", c.AddMeritCategory},
		{"concluded", c.AddConclusion},
		{"registered", c.AddRegistration},
		{"productivity", c.AddProductivity},
		{"time_limit", c.AddTimeLimit},
		{"adjournment", c.AddAdjournment},
	}
	for _, s := range stages {
		if err := s.fn(ds); err != nil {
			return Counts{}, err
		}
	}
	counts := Tally(ds)
	log.Printf("classify: %s", counts)
	return counts, nil
}
