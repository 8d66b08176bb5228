package domain

const (
	EventNameGameStarted      = "game.started"
	EventNameQuestionResolved = "question.resolved"
	EventNameGameFinished     = "game.finished"
)

// Game events carry Seq, a per-game counter starting at 1, so consumers can
// restore the order of events that handlers receive concurrently.
type EventGameStarted struct {
	GameID        string `json:"gameId"`
	Seq           uint64 `json:"seq"`
	CatalogID     string `json:"catalogId"`
	QuestionCount int    `json:"questionCount"`
	Replay        bool   `json:"replay"`
}

func (EventGameStarted) Name() string { return EventNameGameStarted }

type EventQuestionResolved struct {
	GameID     string     `json:"gameId"`
	Seq        uint64     `json:"seq"`
	Resolution Resolution `json:"resolution"`
}

func (EventQuestionResolved) Name() string { return EventNameQuestionResolved }

type EventGameFinished struct {
	GameID  string  `json:"gameId"`
	Seq     uint64  `json:"seq"`
	Summary Summary `json:"summary"`
}

func (EventGameFinished) Name() string { return EventNameGameFinished }
