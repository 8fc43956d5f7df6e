package classify

import (
	"fmt"

	"github.com/namatanda/haki-data/internal/cases"
	"github.com/namatanda/haki-data/internal/category"
)

// Counts summarizes a classified dataset. The null/unmapped counters make the
// row-level degradations observable.
type Counts struct {
	Total           int
	NullFiledDate   int
	NullActivity    int
	NullAge         int
	Criminal        int
	Civil           int
	Unmapped        int
	Ambiguous       int
	Concluded       int
	Registered      int
	Merit           int
	NonMerit        int
	WithinTimeLimit int
	Adjournable     int
	Adjourned       int
}

// Tally counts the derived values of ds.
func Tally(ds *cases.Dataset) Counts {
	n := Counts{Total: ds.Len()}
	for _, c := range ds.Cases {
		if c.FiledDate == nil {
			n.NullFiledDate++
		}
		if c.ActivityDate == nil {
			n.NullActivity++
		}
		if c.CaseAge == nil {
			n.NullAge++
		}
		switch c.Nature {
		case cases.Criminal:
			n.Criminal++
		case cases.Civil:
			n.Civil++
		}
		switch c.BroadCaseType.Kind() {
		case category.NoMatch:
			n.Unmapped++
		case category.ManyMatches:
			n.Ambiguous++
		}
		switch c.Productivity {
		case cases.Merit:
			n.Merit++
		case cases.NonMerit:
			n.NonMerit++
		}
		n.Concluded += b2i(c.Concluded)
		n.Registered += b2i(c.Registered)
		n.WithinTimeLimit += b2i(c.WithinTimeLimit)
		n.Adjournable += b2i(c.Adjournable)
		n.Adjourned += b2i(c.Adjourned)
	}
	return n
}

func (n Counts) String() string {
	return fmt.Sprintf("total=%d criminal=%d civil=%d unmapped=%d ambiguous=%d null_age=%d concluded=%d registered=%d merit=%d non_merit=%d within_limit=%d adjournable=%d adjourned=%d",
		n.Total, n.Criminal, n.Civil, n.Unmapped, n.Ambiguous, n.NullAge, n.Concluded,
		n.Registered, n.Merit, n.NonMerit, n.WithinTimeLimit, n.Adjournable, n.Adjourned)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
