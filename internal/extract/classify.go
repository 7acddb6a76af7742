package extract

import "strings"

// partialPhrase is the literal wording an ombudsman uses in the final
// decision section when a complaint is partially upheld. The scraped decision
// category does not carry this granularity.
const partialPhrase = "partially uphold"

// PartiallyUpheld reports whether the final decision section contains the
// partial-upheld phrase. The match is case-sensitive.
func PartiallyUpheld(finalSection string) bool {
	return strings.Contains(finalSection, partialPhrase)
}
