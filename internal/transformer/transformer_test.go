package transformer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/namatanda/haki-data/pkg/records"
)

func returnRows() []records.Record {
	return []records.Record{
		{"court": "Milimani", "case_type": "Civil Suit", "outcome": "Terminated/ Struck Out/ Dismissed/Case Closed"},
		{"court": "Milimani", "case_type": "Civil Suit", "outcome": nil},
		{"court": "Kisumu", "case_type": "Murder Case", "outcome": "Adjourned"},
	}
}

// rename rewrites one outcome value in place.
func rename(from, to string) Func {
	return func(in []records.Record) []records.Record {
		for _, r := range in {
			if r["outcome"] == from {
				r["outcome"] = to
			}
		}
		return in
	}
}

// dropNoOutcome filters in place like the require step.
var dropNoOutcome = Func(func(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if !r.IsNull("outcome") {
			out = append(out, r)
		}
	}
	return out
})

func TestChainAppliesInOrder(t *testing.T) {
	tests := []struct {
		name  string
		chain Chain
		want  []string
	}{
		{
			name:  "rename then filter",
			chain: Chain{rename("Terminated/ Struck Out/ Dismissed/Case Closed", "Terminated"), dropNoOutcome},
			want:  []string{"Terminated", "Adjourned"},
		},
		{
			name:  "second rename sees the first",
			chain: Chain{rename("Adjourned", "Mention"), rename("Mention", "Hearing"), dropNoOutcome},
			want:  []string{"Terminated/ Struck Out/ Dismissed/Case Closed", "Hearing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range tt.chain.Apply(returnRows()) {
				got = append(got, r["outcome"].(string))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("outcomes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmptyChainReturnsInput(t *testing.T) {
	in := returnRows()
	var c Chain
	out := c.Apply(in)
	if len(out) != len(in) || &out[0] != &in[0] {
		t.Fatalf("empty chain did not return its input")
	}
	if c.Apply(nil) != nil {
		t.Fatalf("Apply(nil) returned a non-nil slice")
	}
}

func TestLoggedPassesSurvivorsThrough(t *testing.T) {
	out := Logged("require", dropNoOutcome).Apply(returnRows())
	if len(out) != 2 || out[1]["court"] != "Kisumu" {
		t.Fatalf("survivors = %v", out)
	}
}

func TestApplyTable(t *testing.T) {
	tbl := records.NewTable("court", "case_type", "outcome")
	tbl.Rows = returnRows()
	Chain{dropNoOutcome}.ApplyTable(tbl)
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if diff := cmp.Diff([]string{"court", "case_type", "outcome"}, tbl.Columns); diff != "" {
		t.Fatalf("schema changed (-want +got):\n%s", diff)
	}
}
