package testmocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/statlabs/pairscreen/internal/models"
)

// MockScoreHistory implements repository.ScoreHistory for testing.
type MockScoreHistory struct {
	mock.Mock
}

// Append records the call with the pair and score it was given.
func (m *MockScoreHistory) Append(pair string, score models.PairScore) {
	m.Called(pair, score)
}

// History returns the configured score slice for the pair.
func (m *MockScoreHistory) History(pair string) []models.PairScore {
	args := m.Called(pair)
	if scores, ok := args.Get(0).([]models.PairScore); ok {
		return scores
	}
	return nil
}
