package builtin

import (
	"github.com/namatanda/haki-data/internal/config"
	"github.com/namatanda/haki-data/internal/transformer"
)

// Cleaning builds the cleaning chain described by c:
// normalize, court name, replace, require, dedup, title case.
func Cleaning(c config.Clean) transformer.Chain {
	chain := transformer.Chain{
		Normalize{NullValues: c.NullValues},
	}
	if len(c.CourtNameMap) > 0 || c.CourtPrefix != "" || c.CourtFirstToken {
		chain = append(chain, CourtName{
			Map:        c.CourtNameMap,
			FirstToken: c.CourtFirstToken,
			Prefix:     c.CourtPrefix,
		})
	}
	if len(c.Replace) > 0 {
		chain = append(chain, Replace{Values: c.Replace})
	}
	if len(c.Required) > 0 {
		chain = append(chain, transformer.Logged("require", Require{Fields: c.Required}))
	}
	if c.Dedup != "" && c.Dedup != "none" {
		chain = append(chain, transformer.Logged("dedup", DeDup{
			Policy:       c.Dedup,
			Keys:         c.DedupKeys,
			PreferFields: c.PreferFields,
		}))
	}
	if len(c.TitleCase) > 0 {
		chain = append(chain, NewTitleCase(c.TitleCase...))
	}
	return chain
}
