// Package catalog holds the fixed list of service desk categories shared by
// every entry point.
package catalog

// JunkLabel is the UTF-8 spelling of the junk queue label.
const JunkLabel = "CSF – Junk NSD"

// LegacyJunkLabel is the mis-encoded form ("â€“" is an en dash decoded as
// cp1252) that older copies of the category list carried. It is never part of
// the prompt; it exists so callers can recognise the old spelling in exported data.
const LegacyJunkLabel = "CSF â€“ Junk NSD"

// categories is never handed out directly; Categories returns a copy.
var categories = [...]string{
	"NHSUK Spam/Marketing",
	"NHSUK Profiles",
	"NHSuk Unsupported Service",
	"NHSUK Content Management Service",
	"NHSUK Data Services - Directories",
	"NHSUK Ratings & Reviews",
	"NHSuk Generic Service",
	"NHSUK Data Services - GDoS",
	"NHSUK Personal Medical Query",
	"NHSUK Find A Service",
	"NHSUK Syndication",
	"NHSUK Health Assessment Tools",
	"NHSUK Internal Tech Request",
	"NHSUK Find Your NHS Number",
	"Z_Retired P0 & P5 Web Service",
	"NBS Q-Flow Acct Mgmt",
	"NSD Unsupported Service",
	"NBS Patient Journey",
	"NHSUK Give Us Feedback Form",
	"NHSUK Campaigns",
	"Patient Facing",
	"Profile manager (GP Reg)",
	"NHS App National Services",
	"GeneralPracticeAnnualSelfDeclaration-eDec",
	"NHSUK Authenticated Website",
	"Post event message to GP",
	JunkLabel,
}

// Categories returns the ordered category labels. The slice is a fresh copy.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories[:])
	return out
}

// Len returns the number of categories.
func Len() int { return len(categories) }

// Contains reports whether label is an exact catalog entry.
func Contains(label string) bool {
	for _, c := range categories {
		if c == label {
			return true
		}
	}
	return false
}
