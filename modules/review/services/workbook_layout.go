package services

import "github.com/iota-uz/review-sdk/pkg/excel"

// Sheet names of an import workbook.
const (
	SheetProfile    = "Profile"
	SheetSelf       = "Self-Assessment"
	SheetPeer       = "360 Assessment"
	SheetReferences = "Reference Search"
)

// Profile and e-mail headers are matched exactly. The other columns are found by
// case-insensitive fragment, so the fragments below must stay unambiguous.
const (
	HeaderEmail      = "Email"
	HeaderFullName   = "Full Name"
	HeaderUnit       = "Unit"
	HeaderCycleLabel = "Cycle Label"
	HeaderRole       = "Role"
	HeaderTrack      = "Track"

	HeaderCriterion     = "Criterion"
	HeaderScore         = "Score"
	HeaderJustification = "Justification"

	HeaderEvaluatedEmail = "Evaluated Email"
	HeaderProject        = "Project Name"
	HeaderOverallScore   = "Overall Score"
	HeaderImprovement    = "Improvement Points"
	HeaderStrength       = "Strength Points"
	HeaderWouldWorkAgain = "Would Work Again"

	HeaderReferenceEmail = "Reference Email"
)

const (
	fragmentCriterion      = "criterion"
	fragmentScore          = "score"
	fragmentJustification  = "justification"
	fragmentProject        = "project"
	fragmentImprovement    = "improvement"
	fragmentStrength       = "strength"
	fragmentWouldWorkAgain = "work again"
)

// WorkbookLayout lists the sheets of the import template with their header rows.
func WorkbookLayout() []excel.SheetSpec {
	return []excel.SheetSpec{
		{Name: SheetProfile, Headers: []string{HeaderEmail, HeaderFullName, HeaderUnit, HeaderCycleLabel, HeaderRole, HeaderTrack}},
		{Name: SheetSelf, Headers: []string{HeaderCriterion, HeaderScore, HeaderJustification}},
		{Name: SheetPeer, Headers: []string{
			HeaderEvaluatedEmail, HeaderProject, HeaderOverallScore,
			HeaderImprovement, HeaderStrength, HeaderWouldWorkAgain,
		}},
		{Name: SheetReferences, Headers: []string{HeaderReferenceEmail, HeaderJustification}},
	}
}
