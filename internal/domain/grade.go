package domain

// Grade is the verbal rating derived from the accuracy percentage.
type Grade string

const (
	GradeOutstanding    Grade = "Outstanding"
	GradeExcellent      Grade = "Excellent"
	GradeGreat          Grade = "Great"
	GradeGoodEffort     Grade = "Good effort"
	GradeKeepPracticing Grade = "Keep practicing"
)

// gradeBands is ordered highest threshold first; thresholds are inclusive.
var gradeBands = []struct {
	min   float64
	grade Grade
}{
	{90, GradeOutstanding},
	{80, GradeExcellent},
	{70, GradeGreat},
	{60, GradeGoodEffort},
}

// GradeFor maps an accuracy percentage onto a grade.
func GradeFor(accuracy float64) Grade {
	for _, band := range gradeBands {
		if accuracy >= band.min {
			return band.grade
		}
	}
	return GradeKeepPracticing
}

var gradeMessages = map[Grade]string{
	GradeOutstanding:    "Outstanding! You're a trivia master!",
	GradeExcellent:      "Excellent work! Very knowledgeable!",
	GradeGreat:          "Great job! Keep learning!",
	GradeGoodEffort:     "Good effort! Room for improvement!",
	GradeKeepPracticing: "Keep practicing! You'll get better!",
}

// Message is the encouragement line shown with the grade.
func (g Grade) Message() string {
	if msg, ok := gradeMessages[g]; ok {
		return msg
	}
	return string(g)
}
