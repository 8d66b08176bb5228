// Package telemetry exposes game metrics and instruments infrastructure clients.
package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/event"
)

// Metrics counts game activity from bus events.
type Metrics struct {
	gamesStarted      prometheus.Counter
	gamesReplayed     prometheus.Counter
	questionsResolved *prometheus.CounterVec
	gamesFinished     prometheus.Counter
	finalAccuracy     prometheus.Histogram
}

// NewMetrics creates the game collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trivia_games_started_total",
			Help: "Games started, replays included.",
		}),
		gamesReplayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trivia_games_replayed_total",
			Help: "Games restarted with a reshuffled deck.",
		}),
		questionsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_questions_resolved_total",
			Help: "Questions resolved, by outcome.",
		}, []string{"outcome"}),
		gamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trivia_games_finished_total",
			Help: "Games played to the end of the deck.",
		}),
		finalAccuracy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trivia_final_accuracy_percent",
			Help:    "Accuracy percentage of finished games.",
			Buckets: []float64{0, 20, 40, 60, 70, 80, 90, 100, 150, 200, 300, 500},
		}),
	}
	for _, c := range []prometheus.Collector{m.gamesStarted, m.gamesReplayed, m.questionsResolved, m.gamesFinished, m.finalAccuracy} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register subscribes the collectors to bus.
func (m *Metrics) Register(bus *event.Bus) {
	bus.Subscribe(domain.EventNameGameStarted, m.handle)
	bus.Subscribe(domain.EventNameQuestionResolved, m.handle)
	bus.Subscribe(domain.EventNameGameFinished, m.handle)
}

func (m *Metrics) handle(_ context.Context, e event.Event) error {
	switch e := e.(type) {
	case domain.EventGameStarted:
		m.gamesStarted.Inc()
		if e.Replay {
			m.gamesReplayed.Inc()
		}
	case domain.EventQuestionResolved:
		m.questionsResolved.WithLabelValues(e.Resolution.Outcome.String()).Inc()
	case domain.EventGameFinished:
		m.gamesFinished.Inc()
		m.finalAccuracy.Observe(e.Summary.AccuracyPercentage)
	}
	return nil
}
