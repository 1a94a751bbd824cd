package repository

import (
	"sync"

	"github.com/statlabs/pairscreen/internal/models"
)

// ScoreHistory records screening outcomes per pair so callers can track how
// pair quality evolves between runs. Implementations must be safe for
// concurrent use.
type ScoreHistory interface {
	Append(pair string, score models.PairScore)
	History(pair string) []models.PairScore
}

// InMemoryScoreHistory keeps score history in process memory.
type InMemoryScoreHistory struct {
	mu     sync.RWMutex
	scores map[string][]models.PairScore
}

// NewInMemoryScoreHistory creates an empty in-memory history.
func NewInMemoryScoreHistory() *InMemoryScoreHistory {
	return &InMemoryScoreHistory{
		scores: make(map[string][]models.PairScore),
	}
}

// Append records a score under the pair name.
func (h *InMemoryScoreHistory) Append(pair string, score models.PairScore) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scores[pair] = append(h.scores[pair], score)
}

// History returns a copy of the recorded scores for a pair, oldest first.
func (h *InMemoryScoreHistory) History(pair string) []models.PairScore {
	h.mu.RLock()
	defer h.mu.RUnlock()
	records := h.scores[pair]
	out := make([]models.PairScore, len(records))
	copy(out, records)
	return out
}
