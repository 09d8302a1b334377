package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byEntity(mirrors []Mirror) map[int64]MatchRecord {
	out := make(map[int64]MatchRecord, len(mirrors))
	for _, m := range mirrors {
		out[m.EntityID] = m.Record
	}
	return out
}

func TestResultInvert(t *testing.T) {
	tests := []struct {
		in   Result
		want Result
	}{
		{ResultWon, ResultLost},
		{ResultLost, ResultWon},
		{ResultTie, ResultTie},
		{ResultNoResult, ResultNoResult},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Invert())
		})
	}
}

func TestDeriveMirrors(t *testing.T) {
	date := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	gameTime := 18.5

	t.Run("singles mirrors the opponent only", func(t *testing.T) {
		record := MatchRecord{
			MatchID:    "m1",
			Category:   "singles",
			Date:       date,
			MatchScore: "2-1",
			Result:     ResultWon,
			Notes:      "close one",
			Games:      []Game{{GameScore: "21-19", Time: &gameTime}},
			Opponent:   Participant{ID: 7},
		}

		mirrors := DeriveMirrors(42, record, false)

		require.Len(t, mirrors, 1)
		m := mirrors[0]
		assert.Equal(t, int64(7), m.EntityID)
		assert.Equal(t, ResultLost, m.Record.Result)
		assert.Equal(t, Participant{ID: 42}, m.Record.Opponent)
		assert.Nil(t, m.Record.Partner)
		assert.Nil(t, m.Record.Opponent2)
		assert.Equal(t, "m1", m.Record.MatchID)
		assert.Equal(t, date, m.Record.Date)
		assert.Equal(t, "2-1", m.Record.MatchScore)
		assert.Equal(t, "close one", m.Record.Notes)
		assert.Equal(t, record.Games, m.Record.Games)
	})

	t.Run("games are copied, not shared", func(t *testing.T) {
		record := MatchRecord{
			MatchID:  "m1",
			Result:   ResultWon,
			Games:    []Game{{GameScore: "21-19", Time: &gameTime}},
			Opponent: Participant{ID: 7},
		}
		mirrors := DeriveMirrors(42, record, false)
		require.Len(t, mirrors, 1)

		*mirrors[0].Record.Games[0].Time = 99
		mirrors[0].Record.Games[0].GameScore = "changed"
		assert.Equal(t, 18.5, gameTime)
		assert.Equal(t, "21-19", record.Games[0].GameScore)
	})

	t.Run("external opponent gets nothing", func(t *testing.T) {
		record := MatchRecord{MatchID: "m1", Result: ResultLost, Opponent: Participant{ID: 7, IsExternal: true}}
		assert.Empty(t, DeriveMirrors(42, record, false))
	})

	t.Run("partner and second opponent are ignored outside doubles", func(t *testing.T) {
		record := MatchRecord{
			MatchID:   "m1",
			Result:    ResultWon,
			Opponent:  Participant{ID: 7},
			Opponent2: &Participant{ID: 8},
			Partner:   &Participant{ID: 9},
		}
		mirrors := DeriveMirrors(42, record, false)
		require.Len(t, mirrors, 1)
		assert.Equal(t, int64(7), mirrors[0].EntityID)
	})

	t.Run("doubles swaps roles for every tracked participant", func(t *testing.T) {
		record := MatchRecord{
			MatchID:   "m2",
			Category:  "doubles",
			Result:    ResultWon,
			Opponent:  Participant{ID: 7},
			Opponent2: &Participant{ID: 8},
			Partner:   &Participant{ID: 9},
		}

		got := byEntity(DeriveMirrors(42, record, true))
		require.Len(t, got, 3)

		opp := got[7]
		assert.Equal(t, ResultLost, opp.Result)
		assert.Equal(t, Participant{ID: 42}, opp.Opponent)
		assert.Equal(t, &Participant{ID: 9}, opp.Opponent2)
		assert.Equal(t, &Participant{ID: 8}, opp.Partner)

		opp2 := got[8]
		assert.Equal(t, ResultLost, opp2.Result)
		assert.Equal(t, Participant{ID: 42}, opp2.Opponent)
		assert.Equal(t, &Participant{ID: 9}, opp2.Opponent2)
		assert.Equal(t, &Participant{ID: 7}, opp2.Partner)

		partner := got[9]
		assert.Equal(t, ResultWon, partner.Result)
		assert.Equal(t, Participant{ID: 7}, partner.Opponent)
		assert.Equal(t, &Participant{ID: 8}, partner.Opponent2)
		assert.Equal(t, &Participant{ID: 42}, partner.Partner)

		for id, r := range got {
			assert.Equal(t, "m2", r.MatchID, "entity %d", id)
			assert.Equal(t, "doubles", r.Category, "entity %d", id)
		}
	})

	t.Run("doubles keeps tie and no result symmetric", func(t *testing.T) {
		for _, result := range []Result{ResultTie, ResultNoResult} {
			record := MatchRecord{
				MatchID:   "m3",
				Result:    result,
				Opponent:  Participant{ID: 7},
				Opponent2: &Participant{ID: 8},
				Partner:   &Participant{ID: 9},
			}
			for _, m := range DeriveMirrors(42, record, true) {
				assert.Equal(t, result, m.Record.Result, "entity %d", m.EntityID)
			}
		}
	})

	t.Run("doubles with external partner still names them in mirrors", func(t *testing.T) {
		record := MatchRecord{
			MatchID:   "m4",
			Result:    ResultLost,
			Opponent:  Participant{ID: 7},
			Opponent2: &Participant{ID: 8, IsExternal: true},
			Partner:   &Participant{ID: 9, IsExternal: true},
		}

		got := byEntity(DeriveMirrors(42, record, true))
		require.Len(t, got, 1)
		opp := got[7]
		assert.Equal(t, ResultWon, opp.Result)
		assert.Equal(t, &Participant{ID: 9, IsExternal: true}, opp.Opponent2)
		assert.Equal(t, &Participant{ID: 8, IsExternal: true}, opp.Partner)
	})
}
