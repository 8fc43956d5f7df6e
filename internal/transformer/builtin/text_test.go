package builtin

import (
	"reflect"
	"testing"

	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/pkg/records"
)

func TestTitleCase(t *testing.T) {
	in := []records.Record{
		{"outcome": "judgment delivered- case closed", "court": "milimani"},
		{"outcome": "MATTER WITHDRAWN"},
		{"outcome": nil},
	}
	got := NewTitleCase("outcome").Apply(in)
	want := []records.Record{
		{"outcome": "Judgment Delivered- Case Closed", "court": "milimani"},
		{"outcome": "Matter Withdrawn"},
		{"outcome": nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TitleCase: got %#v want %#v", got, want)
	}
}

func TestReplace(t *testing.T) {
	in := []records.Record{
		{"outcome": "Terminated/ Struck Out/ Dismissed/Case Closed"},
		{"outcome": "Dismissed"},
		{"court": "Terminated/ Struck Out/ Dismissed/Case Closed"},
	}
	got := Replace{Values: map[string]map[string]string{
		"outcome": {"Terminated/ Struck Out/ Dismissed/Case Closed": "Terminated"},
	}}.Apply(in)
	want := []records.Record{
		{"outcome": "Terminated"},
		{"outcome": "Dismissed"},
		{"court": "Terminated/ Struck Out/ Dismissed/Case Closed"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Replace: got %#v want %#v", got, want)
	}
}

func TestCourtNameClean(t *testing.T) {
	tests := []struct {
		name string
		cn   CourtName
		in   string
		want string
	}{
		{
			name: "division suffix removed",
			cn:   CourtName{Map: map[string]string{"_High Court Div": "", "_High Court Civil": ""}},
			in:   "Kakamega_High Court Div",
			want: "Kakamega",
		},
		{
			name: "prefix stripped case-insensitively",
			cn:   CourtName{Prefix: "High Court_High Court"},
			in:   "high court_high court  Nyeri  Law Courts",
			want: "Nyeri Law Courts",
		},
		{
			name: "first token",
			cn:   CourtName{Map: map[string]string{"_High Court Criminal": ""}, FirstToken: true},
			in:   "Milimani_High Court Criminal Division",
			want: "Milimani",
		},
		{
			name: "longest replacement wins",
			cn:   CourtName{Map: map[string]string{"_High": "X", "_High Court Div": ""}},
			in:   "Nyeri_High Court Div",
			want: "Nyeri",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cn.Clean(tt.in); got != tt.want {
				t.Fatalf("Clean(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleaningChain(t *testing.T) {
	c := config.DefaultClean()
	c.Required = []string{"case_type", "outcome"}
	c.CourtPrefix = "High Court_High Court"

	in := []records.Record{
		{"court": "High Court_High Court Nyeri_High Court Div", "case_type": "Civil Suit", "outcome": " terminated/ struck out/ dismissed/case closed "},
		{"court": "High Court_High Court Nyeri_High Court Div", "case_type": "Civil Suit", "outcome": "Terminated/ Struck Out/ Dismissed/Case Closed"},
		{"court": "High Court_High Court Nyeri_High Court Div", "case_type": "Civil Suit", "outcome": "Terminated/ Struck Out/ Dismissed/Case Closed"},
		{"court": "Nyeri", "case_type": "nan", "outcome": "Dismissed"},
		{"court": "Nyeri", "case_type": "Murder Case", "outcome": "judgment delivered"},
	}
	got := Cleaning(c).Apply(in)
	want := []records.Record{
		{"court": "Nyeri", "case_type": "Civil Suit", "outcome": "Terminated/ Struck Out/ Dismissed/Case Closed"},
		{"court": "Nyeri", "case_type": "Civil Suit", "outcome": "Terminated"},
		{"court": "Nyeri", "case_type": "Murder Case", "outcome": "Judgment Delivered"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Cleaning:\n got %#v\nwant %#v", got, want)
	}
}
