package platform

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newNumericCollator returns a locale-aware collator that orders digit runs
// by numeric value, so "iOS 9.0" sorts before "iOS 17.0".
// A Collator is not safe for concurrent use; create one per sort.
func newNumericCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}
