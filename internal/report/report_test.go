package report

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/go-cmp/cmp"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/category"
	"github.com/namatanda/haki-data/pkg/records"
)

func day(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}

func strp(s string) *string { return &s }

func classified(cs ...*cases.Case) *cases.Dataset {
	return cases.New(cs,
		cases.ColCourt, cases.ColCaseType, cases.ColOutcome, cases.ColComingFor, cases.ColReasonAdj,
		cases.ColFiledDate, cases.ColActivityDate, cases.ColCaseAge, cases.ColNature,
		cases.ColBroadCaseType, cases.ColConcluded, cases.ColRegistered, cases.ColProductivity,
		cases.ColWithinTimeLimit, cases.ColAdjournable, cases.ColAdjourned)
}

var fy = Window{
	Start: civil.Date{Year: 2023, Month: time.July, Day: 1},
	End:   civil.Date{Year: 2024, Month: time.June, Day: 30},
}

func TestOutcomeByCourt(t *testing.T) {
	murder := category.Single("Murder")
	suit := category.Single("Civil Suit")
	ambiguous := category.Mapping{
		{Name: "Criminal Revision", Labels: []string{"X"}},
		{Name: "Economic Crimes", Labels: []string{"X"}},
	}.Resolve("X")

	ds := classified(
		&cases.Case{Court: "Nyeri", BroadCaseType: murder, Concluded: true, ActivityDate: day(2023, time.July, 1)},
		&cases.Case{Court: "Nyeri", BroadCaseType: murder, Concluded: true, ActivityDate: day(2024, time.June, 30)},
		&cases.Case{Court: "Nyeri", BroadCaseType: murder, Concluded: true, ActivityDate: day(2024, time.July, 1)},
		&cases.Case{Court: "Nyeri", BroadCaseType: suit, Concluded: false, ActivityDate: day(2023, time.August, 1)},
		&cases.Case{Court: "Milimani", BroadCaseType: suit, Concluded: true, ActivityDate: day(2023, time.August, 1)},
		&cases.Case{Court: "Milimani", BroadCaseType: ambiguous, Concluded: true, ActivityDate: day(2023, time.August, 1)},
		&cases.Case{Court: "Milimani", Concluded: true, ActivityDate: day(2023, time.August, 1)},
		&cases.Case{Court: "Milimani", BroadCaseType: suit, Concluded: true},
	)

	got, err := OutcomeByCourt(ds, fy, cases.ColConcluded)
	if err != nil {
		t.Fatalf("OutcomeByCourt: %v", err)
	}
	want := Table{
		Name:    "concluded_by_court",
		Columns: []string{"court", "Civil Suit", "Criminal Revision|Economic Crimes", "Murder"},
		Rows: [][]any{
			{"Milimani", 1, 1, 0},
			{"Nyeri", 0, 0, 2},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OutcomeByCourt mismatch (-want +got):\n%s", diff)
	}
}

func TestOutcomeByCourtErrors(t *testing.T) {
	ds := classified()

	bad := Window{Start: fy.End, End: fy.Start}
	if _, err := OutcomeByCourt(ds, bad, cases.ColConcluded); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}

	if _, err := OutcomeByCourt(ds, fy, "court"); !errors.Is(err, records.ErrMissingColumns) {
		t.Fatalf("expected schema error for non-boolean column, got %v", err)
	}

	sparse := cases.New(nil, cases.ColCourt, cases.ColActivityDate, cases.ColBroadCaseType)
	_, err := OutcomeByCourt(sparse, fy, cases.ColRegistered)
	var se *records.SchemaError
	if !errors.As(err, &se) || se.Missing[0] != cases.ColRegistered {
		t.Fatalf("expected missing registered, got %v", err)
	}

	single := Window{Start: fy.Start, End: fy.Start}
	if _, err := OutcomeByCourt(ds, single, cases.ColConcluded); err != nil {
		t.Fatalf("single-day window: %v", err)
	}
}

func TestProductivitySumsToConcluded(t *testing.T) {
	ds := classified(
		&cases.Case{Court: "A", Concluded: true, Productivity: cases.Merit},
		&cases.Case{Court: "A", Concluded: true, Productivity: cases.NonMerit},
		&cases.Case{Court: "A", Concluded: true, Productivity: cases.NonMerit},
		&cases.Case{Court: "A"},
		&cases.Case{Court: "B", Concluded: true, Productivity: cases.NonMerit},
		&cases.Case{Court: "C"},
	)
	got, err := Productivity(ds)
	if err != nil {
		t.Fatalf("Productivity: %v", err)
	}
	want := Table{
		Name:    "court_productivity",
		Columns: []string{"court", "Merit", "Non_Merit"},
		Rows: [][]any{
			{"A", 1, 2},
			{"B", 0, 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Productivity mismatch (-want +got):\n%s", diff)
	}

	concluded := map[string]int{}
	for _, c := range ds.Cases {
		if c.Concluded {
			concluded[c.Court]++
		}
	}
	for _, r := range got.Rows {
		if sum := r[1].(int) + r[2].(int); sum != concluded[r[0].(string)] {
			t.Fatalf("court %v: merit+non_merit = %d; concluded = %d", r[0], sum, concluded[r[0].(string)])
		}
	}
}

func TestAdjournment(t *testing.T) {
	ds := classified(
		&cases.Case{Court: "A", Adjournable: true, Adjourned: true, ReasonAdj: strp("Counsel absent")},
		&cases.Case{Court: "A", Adjournable: true, Adjourned: true, ReasonAdj: strp("Counsel absent")},
		&cases.Case{Court: "A", Adjournable: true},
		&cases.Case{Court: "A", Adjournable: true, Adjourned: true, ReasonAdj: strp("Witness absent")},
		&cases.Case{Court: "B", ReasonAdj: strp("Court not sitting")},
		&cases.Case{Court: "B"},
	)
	stats, reasons, err := Adjournment(ds)
	if err != nil {
		t.Fatalf("Adjournment: %v", err)
	}

	wantStats := Table{
		Name:    "adjourned_stats",
		Columns: []string{"court", "total_adjourned", "total_adjournable", "adjourn_proportion"},
		Rows: [][]any{
			{"A", 3, 4, 75.0},
			{"B", 0, 0, nil},
		},
	}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	wantReasons := Table{
		Name:    "adjourned_reasons",
		Columns: []string{"court", "reason_adj", "count"},
		Rows: [][]any{
			{"A", "Counsel absent", 2},
			{"A", "Witness absent", 1},
			{"B", "Court not sitting", 0},
		},
	}
	if diff := cmp.Diff(wantReasons, reasons); diff != "" {
		t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthlyStats(t *testing.T) {
	ds := classified(
		&cases.Case{Court: "A", CaseType: "Civil Suit", Registered: true, ActivityDate: day(2023, time.July, 3)},
		&cases.Case{Court: "A", CaseType: "Civil Suit", Concluded: true, ActivityDate: day(2023, time.July, 30)},
		&cases.Case{Court: "A", CaseType: "Civil Suit", Concluded: true, ActivityDate: day(2023, time.August, 1)},
		&cases.Case{Court: "A", CaseType: "Murder Case", ActivityDate: day(2023, time.July, 9)},
		&cases.Case{Court: "A", CaseType: "Murder Case", Concluded: true},
	)
	got, err := MonthlyStats(ds)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	want := Table{
		Name:    "monthly_stats",
		Columns: []string{"court", "month", "case_type", "registered", "concluded"},
		Rows: [][]any{
			{"A", "2023-07", "Civil Suit", 1, 1},
			{"A", "2023-07", "Murder Case", 0, 0},
			{"A", "2023-08", "Civil Suit", 0, 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("MonthlyStats mismatch (-want +got):\n%s", diff)
	}
}

func TestQuarterlyStats(t *testing.T) {
	ds := classified(
		&cases.Case{Court: "A", Adjournable: true, Adjourned: true, ActivityDate: day(2023, time.July, 3)},
		&cases.Case{Court: "A", Adjournable: true, Concluded: true, ActivityDate: day(2023, time.September, 30)},
		&cases.Case{Court: "A", Registered: true, ActivityDate: day(2023, time.October, 1)},
		&cases.Case{Court: "B", Concluded: true, ActivityDate: day(2024, time.January, 5)},
	)
	got, err := QuarterlyStats(ds)
	if err != nil {
		t.Fatalf("QuarterlyStats: %v", err)
	}
	want := Table{
		Name: "quarterly_stats",
		Columns: []string{"court", "quarter", "cases_adjourned", "cases_adjournable",
			"cases_concluded", "cases_registered"},
		Rows: [][]any{
			{"A", "2023Q3", 1, 2, 1, 0},
			{"A", "2023Q4", 0, 0, 0, 1},
			{"B", "2024Q1", 0, 0, 1, 0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("QuarterlyStats mismatch (-want +got):\n%s", diff)
	}
}

func TestInnerJoinDropsPartialKeys(t *testing.T) {
	keys := []string{"court", "quarter"}
	a := Table{Name: "a", Columns: []string{"court", "quarter", "x"}, Rows: [][]any{
		{"A", "2023Q3", 1},
		{"A", "2023Q4", 2},
		{"B", "2023Q3", 3},
	}}
	b := Table{Name: "b", Columns: []string{"quarter", "court", "y"}, Rows: [][]any{
		{"2023Q3", "A", 10},
		{"2023Q3", "B", 30},
	}}
	c := Table{Name: "c", Columns: []string{"court", "quarter", "z"}, Rows: [][]any{
		{"A", "2023Q3", 100},
		{"A", "2023Q4", 200},
	}}

	got, err := InnerJoin("joined", keys, a, b, c)
	if err != nil {
		t.Fatalf("InnerJoin: %v", err)
	}
	want := Table{
		Name:    "joined",
		Columns: []string{"court", "quarter", "x", "y", "z"},
		Rows:    [][]any{{"A", "2023Q3", 1, 10, 100}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("InnerJoin mismatch (-want +got):\n%s", diff)
	}

	if _, err := InnerJoin("bad", []string{"month"}, a); err == nil {
		t.Fatal("expected error for missing key column")
	}
}

func TestTimeLimitCompliance(t *testing.T) {
	ds := classified(
		&cases.Case{Court: "A", BroadCaseType: category.Single("Murder"), Concluded: true, WithinTimeLimit: true},
		&cases.Case{Court: "A", BroadCaseType: category.Single("Murder"), Concluded: true},
		&cases.Case{Court: "A", BroadCaseType: category.Single("Murder")},
		&cases.Case{Court: "A", BroadCaseType: category.Single("Adoption")},
		&cases.Case{Court: "A", CaseType: "Unknown", Concluded: true},
	)
	got, err := TimeLimitCompliance(ds, map[string]int{"Murder": 360})
	if err != nil {
		t.Fatalf("TimeLimitCompliance: %v", err)
	}
	want := Table{
		Name:    "pmmu_timelines",
		Columns: []string{"court", "broad_case_type", "time_limit_days", "concluded", "within_time_limit", "compliance_rate"},
		Rows: [][]any{
			{"A", "Adoption", 0, 0, 0, nil},
			{"A", "Murder", 360, 2, 1, 50.0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TimeLimitCompliance mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmappedCaseTypes(t *testing.T) {
	ambiguous := category.Mapping{
		{Name: "P", Labels: []string{"Dup"}},
		{Name: "Q", Labels: []string{"Dup"}},
	}.Resolve("Dup")
	ds := classified(
		&cases.Case{CaseType: "Tax Appeal"},
		&cases.Case{CaseType: "Dup", BroadCaseType: ambiguous},
		&cases.Case{CaseType: "Dup", BroadCaseType: ambiguous},
		&cases.Case{CaseType: "Civil Suit", BroadCaseType: category.Single("Civil Suit")},
	)
	got, err := UnmappedCaseTypes(ds)
	if err != nil {
		t.Fatalf("UnmappedCaseTypes: %v", err)
	}
	want := Table{
		Name:    "unmapped_case_types",
		Columns: []string{"case_type", "status", "candidates", "count"},
		Rows: [][]any{
			{"Dup", "ambiguous", "P|Q", 2},
			{"Tax Appeal", "unmapped", "", 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("UnmappedCaseTypes mismatch (-want +got):\n%s", diff)
	}
}
