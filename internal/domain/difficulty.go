package domain

import (
	"fmt"
	"strings"
)

// Difficulty grades a question and determines its point value.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
	DifficultyExpert
)

var difficultyPoints = map[Difficulty]int{
	DifficultyEasy:   100,
	DifficultyMedium: 200,
	DifficultyHard:   300,
	DifficultyExpert: 500,
}

var difficultyNames = map[Difficulty]string{
	DifficultyEasy:   "EASY",
	DifficultyMedium: "MEDIUM",
	DifficultyHard:   "HARD",
	DifficultyExpert: "EXPERT",
}

// Difficulties lists every difficulty from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

// Points returns the score awarded for a correct answer, or 0 for an unknown difficulty.
func (d Difficulty) Points() int {
	return difficultyPoints[d]
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	_, ok := difficultyPoints[d]
	return ok
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty maps a label such as "easy" or "EXPERT" onto a Difficulty.
func ParseDifficulty(label string) (Difficulty, error) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	for d, name := range difficultyNames {
		if name == normalized {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", label)
}

// MarshalText renders the difficulty label so snapshots encode as "EASY" rather than 1.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("marshal difficulty: unknown value %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses a difficulty label.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
