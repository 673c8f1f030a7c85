package domain

// Canonical category names, in report order.
const (
	CategoryContent  = "Content"
	CategoryFormat   = "Format"
	CategorySections = "Sections"
	CategorySkills   = "Skills"
	CategoryStyle    = "Style"
)

// CategoryNames is the fixed order the report is rendered in.
var CategoryNames = []string{
	CategoryContent,
	CategoryFormat,
	CategorySections,
	CategorySkills,
	CategoryStyle,
}

const (
	CategoryScoreMax = 20
	OverallScoreMax  = 100
)

type CategoryScore struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Issues      string `json:"issues"`
	Suggestions string `json:"suggestions"`
}

// ResumeReport is the scored critique of one uploaded resume. It always holds
// exactly five categories and is immutable once returned to the caller.
type ResumeReport struct {
	OverallScore int             `json:"overallScore"`
	Categories   []CategoryScore `json:"categories"`
}

// NewResumeReport normalizes raw category scores into a report: category names
// are forced to the canonical five in canonical order, each score is clamped
// to [0,20] and the overall score is the sum of the clamped scores (max 100).
// Categories missing from raw score zero.
func NewResumeReport(raw map[string]CategoryScore) *ResumeReport {
	report := &ResumeReport{Categories: make([]CategoryScore, 0, len(CategoryNames))}
	for _, name := range CategoryNames {
		cat := raw[name]
		cat.Name = name
		cat.Score = clampScore(cat.Score)
		report.Categories = append(report.Categories, cat)
		report.OverallScore += cat.Score
	}
	return report
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > CategoryScoreMax {
		return CategoryScoreMax
	}
	return s
}
