package catalog

import (
	"fmt"
	"strings"

	"trivia-quiz/internal/domain"
)

// Issue captures a validation problem in a catalog file.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports every issue found in a catalog file.
type ValidationError struct {
	Source string
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("catalog %s validation failed: %s", err.Source, strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// Normalize trims a catalog file and converts it into a domain catalog,
// reporting all problems at once.
func Normalize(source string, file File) (domain.Catalog, error) {
	collector := &issueCollector{}
	if file.Version == 0 {
		collector.add("version", "is required")
	} else if file.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", file.Version))
	}

	cat := domain.Catalog{
		ID:    strings.TrimSpace(file.ID),
		Title: strings.TrimSpace(file.Title),
	}
	if cat.ID == "" {
		collector.add("id", "is required")
	}
	if len(file.Questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}

	seenPrompts := map[string]struct{}{}
	for i, entry := range file.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)

		difficulty, err := domain.ParseDifficulty(entry.Difficulty)
		if err != nil {
			collector.add(prefix+".difficulty", err.Error())
			continue
		}

		q, err := domain.NewQuestion(entry.Question, entry.Answer, entry.Options, difficulty, entry.Category)
		if err != nil {
			collector.add(prefix, err.Error())
			continue
		}

		key := strings.ToLower(q.Prompt())
		if _, dup := seenPrompts[key]; dup {
			collector.add(prefix+".question", fmt.Sprintf("duplicate question %q", q.Prompt()))
			continue
		}
		seenPrompts[key] = struct{}{}

		cat.Entries = append(cat.Entries, domain.CatalogEntry{
			Prompt:     q.Prompt(),
			Answer:     q.CorrectAnswer(),
			Options:    q.Options(),
			Difficulty: q.Difficulty(),
			Category:   q.Category(),
		})
	}

	if len(collector.issues) > 0 {
		return domain.Catalog{}, &ValidationError{Source: source, Issues: collector.issues}
	}
	return cat, nil
}
