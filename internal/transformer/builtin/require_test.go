package builtin

import (
	"reflect"
	"testing"

	"github.com/namatanda/haki-data/pkg/records"
)

/*
TestRequireApply_Table covers core filtering semantics:

  - A record is kept only if all required fields exist, are non-nil and, for
    strings, non-empty.
  - Non-string values (e.g. 0, false) count as present.
  - The output preserves the order of surviving records.
*/
func TestRequireApply_Table(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		in      []records.Record
		wantIdx []int
	}{
		{
			name:   "single_required",
			fields: []string{"outcome"},
			in: []records.Record{
				{"case_type": "x"},
				{"outcome": "Dismissed"},
				{"outcome": ""},
				{"outcome": nil},
				{"outcome": "Mention"},
			},
			wantIdx: []int{1, 4},
		},
		{
			name:   "multi_required",
			fields: []string{"date_yyyy", "case_type"},
			in: []records.Record{
				{"date_yyyy": "2023"},
				{"date_yyyy": "2023", "case_type": "Civil Suit"},
				{"date_yyyy": "2023", "case_type": ""},
				{"date_yyyy": 0, "case_type": false},
			},
			wantIdx: []int{1, 3},
		},
		{
			name:    "no_fields_keeps_all",
			fields:  nil,
			in:      []records.Record{{"a": nil}, {}},
			wantIdx: []int{0, 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			want := make([]records.Record, 0, len(tc.wantIdx))
			for _, i := range tc.wantIdx {
				want = append(want, tc.in[i])
			}
			got := Require{Fields: tc.fields}.Apply(tc.in)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("Require.Apply() = %#v; want %#v", got, want)
			}
		})
	}
}
