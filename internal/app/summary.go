package app

import (
	"sort"

	"trivia-quiz/internal/domain"
)

// AccuracyPercentage scores a game against a fixed baseline of one EASY question
// per deck slot, so an all-EXPERT deck can exceed 100.
func AccuracyPercentage(totalScore, questionCount int) float64 {
	if questionCount <= 0 {
		return 0
	}
	return float64(totalScore) * 100 / float64(questionCount*domain.DifficultyEasy.Points())
}

// CategoryBreakdown sums the available and scored points per category, sorted by name.
func CategoryBreakdown(questions []*domain.Question, scored map[string]int) []domain.CategoryResult {
	totals := make(map[string]int)
	for _, q := range questions {
		totals[q.Category()] += q.Points()
	}

	out := make([]domain.CategoryResult, 0, len(totals))
	for category, total := range totals {
		row := domain.CategoryResult{
			Category: category,
			Total:    total,
			Scored:   scored[category],
		}
		if total > 0 {
			row.Percentage = float64(row.Scored) * 100 / float64(total)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

func summarize(deck *domain.Deck, results []domain.Resolution, scored map[string]int) domain.Summary {
	s := domain.Summary{
		QuestionCount: deck.Size(),
		MaxScore:      deck.MaxScore(),
		Results:       make([]domain.Resolution, len(results)),
	}
	copy(s.Results, results)

	for _, res := range results {
		switch res.Outcome {
		case domain.OutcomeCorrect:
			s.Correct++
			s.TotalScore += res.Awarded
		case domain.OutcomeWrong:
			s.Wrong++
		case domain.OutcomeTimeout:
			s.Timeouts++
		}
	}

	s.AccuracyPercentage = AccuracyPercentage(s.TotalScore, s.QuestionCount)
	s.Categories = CategoryBreakdown(deck.Questions(), scored)
	s.Grade = domain.GradeFor(s.AccuracyPercentage)
	return s
}
