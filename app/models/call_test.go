package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCallStatus(t *testing.T) {
	assert.True(t, ValidCallStatus(CallStatusUpcoming))
	assert.True(t, ValidCallStatus(CallStatusWon))
	assert.True(t, ValidCallStatus(CallStatusLost))
	assert.True(t, ValidCallStatus(CallStatusPush))
	assert.False(t, ValidCallStatus("won"))
	assert.False(t, ValidCallStatus(""))
}

func TestCallMatchup(t *testing.T) {
	c := &Call{MatchHomeTeam: "Lakers", MatchAwayTeam: "Celtics"}
	assert.Equal(t, "Lakers vs Celtics", c.Matchup())
}

func TestCallIsSettled(t *testing.T) {
	assert.False(t, (&Call{Status: CallStatusUpcoming}).IsSettled())
	assert.True(t, (&Call{Status: CallStatusWon}).IsSettled())
	assert.True(t, (&Call{Status: CallStatusPush}).IsSettled())
}
