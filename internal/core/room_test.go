package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrespo/fishpond/internal/domain"
)

func testSettings() Settings {
	return Settings{
		MinPlayers:          2,
		MaxPlayers:          4,
		RoundsTotal:         5,
		StartingStock:       20,
		MaxHarvestPerPlayer: 20,
		GrowthStartRound:    1,
	}
}

func joinTwo(t *testing.T, r *Room) (*domain.Participant, *domain.Participant) {
	t.Helper()
	alice, err := r.Join("Alice")
	require.NoError(t, err)
	bob, err := r.Join("Bob")
	require.NoError(t, err)
	return alice, bob
}

func TestRoomStartsAtMinPlayers(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	assert.Equal(t, PhaseWaiting, r.Phase())

	_, err := r.Join("Alice")
	require.NoError(t, err)
	assert.Equal(t, PhaseWaiting, r.Phase())

	_, err = r.Join("Bob")
	require.NoError(t, err)
	assert.Equal(t, PhaseActive, r.Phase())

	snap := r.Snapshot(false)
	assert.True(t, snap.Started)
	assert.False(t, snap.Finished)
	assert.Equal(t, 1, snap.RoundNum)
	assert.Equal(t, 20, snap.Stock)
}

func TestRoomJoinAfterStartRejected(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	joinTwo(t, r)

	_, err := r.Join("Carol")
	assert.ErrorIs(t, err, domain.ErrAlreadyStarted)
	assert.Equal(t, 2, r.RosterSize())
}

func TestRoomFullWhileWaiting(t *testing.T) {
	t.Parallel()

	s := testSettings()
	s.MinPlayers = 3
	s.MaxPlayers = 2
	r := NewRoom("POND", s)

	_, err := r.Join("Alice")
	require.NoError(t, err)
	_, err = r.Join("Bob")
	require.NoError(t, err)
	_, err = r.Join("Carol")
	assert.ErrorIs(t, err, domain.ErrRoomFull)
}

func TestRoomSubmitBeforeStart(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	alice, err := r.Join("Alice")
	require.NoError(t, err)

	assert.ErrorIs(t, r.Submit(alice.ID, 5), domain.ErrNotStarted)
}

func TestRoomSubmitUnknownParticipant(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	joinTwo(t, r)

	assert.ErrorIs(t, r.Submit("nobody", 5), domain.ErrNotAMember)
}

func TestRoomPartialSubmissionDoesNotResolve(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	alice, _ := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 5))

	snap := r.Snapshot(false)
	assert.Equal(t, 1, snap.RoundNum)
	assert.Equal(t, 20, snap.Stock)
	assert.Nil(t, snap.LastRoundResults)
	assert.Equal(t, []domain.ParticipantID{alice.ID}, snap.Submitted)
	assert.Empty(t, r.Snapshot(true).History)
}

func TestRoomCollapseOnOverharvest(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 20))
	require.NoError(t, r.Submit(bob.ID, 20))

	snap := r.Snapshot(false)
	assert.True(t, snap.Finished)
	assert.Equal(t, 1, snap.CollapseRound)
	assert.Equal(t, 0, snap.Stock)

	res := snap.LastRoundResults
	require.NotNil(t, res)
	assert.True(t, res.Collapse)
	assert.NotEmpty(t, res.CollapseMessage)
	assert.Equal(t, 20, res.StockBefore)
	assert.Equal(t, 10, res.Actual[alice.ID])
	assert.Equal(t, 10, res.Actual[bob.ID])
	assert.Equal(t, 20, res.HarvestedTotal)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 0, res.NextStock)
}

func TestRoomSustainableHarvestRegrows(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 2))
	require.NoError(t, r.Submit(bob.ID, 8))

	snap := r.Snapshot(false)
	assert.False(t, snap.Finished)
	assert.Equal(t, 2, snap.RoundNum)
	assert.Equal(t, 30, snap.Stock)

	res := snap.LastRoundResults
	require.NotNil(t, res)
	assert.False(t, res.Collapse)
	assert.Equal(t, 2, res.Actual[alice.ID])
	assert.Equal(t, 8, res.Actual[bob.ID])
	assert.Equal(t, 10, res.HarvestedTotal)
	assert.Equal(t, 10, res.Remaining)
	assert.Equal(t, 30, res.NextStock)
}

func TestRoomResubmitOverwrites(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 5))
	require.NoError(t, r.Submit(alice.ID, 7))
	require.NoError(t, r.Submit(bob.ID, 0))

	res := r.Snapshot(false).LastRoundResults
	require.NotNil(t, res)
	assert.Equal(t, 7, res.Requested[alice.ID])
	assert.Equal(t, 7, res.Actual[alice.ID])
}

func TestRoomSubmitClamped(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 999))
	require.NoError(t, r.Submit(bob.ID, -3))

	res := r.Snapshot(false).LastRoundResults
	require.NotNil(t, res)
	assert.Equal(t, 20, res.Requested[alice.ID])
	assert.Equal(t, 0, res.Requested[bob.ID])
}

func TestRoomFinishesAfterRoundBudget(t *testing.T) {
	t.Parallel()

	s := testSettings()
	s.RoundsTotal = 3
	s.StartingStock = 30
	s.MaxHarvestPerPlayer = 5
	r := NewRoom("POND", s)
	alice, bob := joinTwo(t, r)

	for round := 1; round <= 3; round++ {
		require.NoError(t, r.Submit(alice.ID, 1))
		require.NoError(t, r.Submit(bob.ID, 1))
	}

	snap := r.Snapshot(true)
	assert.True(t, snap.Finished)
	assert.Equal(t, 0, snap.CollapseRound)
	assert.Equal(t, 4, snap.RoundNum)
	assert.Equal(t, 3, snap.SeasonsCompleted)

	require.Len(t, snap.History, 3)
	for round := 1; round <= 3; round++ {
		assert.Contains(t, snap.History, round)
	}

	assert.ErrorIs(t, r.Submit(alice.ID, 1), domain.ErrAlreadyFinished)
	_, err := r.Join("Carol")
	assert.ErrorIs(t, err, domain.ErrAlreadyFinished)
}

func TestRoomTotalsAccumulate(t *testing.T) {
	t.Parallel()

	s := testSettings()
	s.RoundsTotal = 3
	s.StartingStock = 100
	s.MaxHarvestPerPlayer = 10
	s.GrowthStartRound = 99 // no regrowth, keep the arithmetic plain
	r := NewRoom("POND", s)
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 4))
	require.NoError(t, r.Submit(bob.ID, 6))
	require.NoError(t, r.Submit(alice.ID, 3))
	require.NoError(t, r.Submit(bob.ID, 2))

	snap := r.Snapshot(false)
	assert.Equal(t, 7, snap.Totals[alice.ID])
	assert.Equal(t, 8, snap.Totals[bob.ID])
	assert.Equal(t, 100-7-8, snap.Stock)
}

func TestRoomStockCapHonored(t *testing.T) {
	t.Parallel()

	s := testSettings()
	s.StockCap = 25
	r := NewRoom("POND", s)
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 2))
	require.NoError(t, r.Submit(bob.ID, 2))

	// 16 remaining would triple to 48 without the cap
	assert.Equal(t, 25, r.Snapshot(false).Stock)
}

func TestRoomSnapshotHidesAmountsAndHistoryFromPlayers(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 5))
	require.NoError(t, r.Submit(bob.ID, 5))
	require.NoError(t, r.Submit(alice.ID, 9))

	player := r.Snapshot(false)
	assert.Equal(t, []domain.ParticipantID{alice.ID}, player.Submitted)
	assert.Nil(t, player.History)
	assert.Nil(t, player.Scoreboard)

	obs := r.Snapshot(true)
	require.Len(t, obs.History, 1)
	assert.Equal(t, 5, obs.History[1][alice.ID])
	require.Len(t, obs.Scoreboard, 2)
	assert.GreaterOrEqual(t, obs.Scoreboard[0].Total, obs.Scoreboard[1].Total)
}

func TestRoomScoreboardRankedByTotal(t *testing.T) {
	t.Parallel()

	s := testSettings()
	s.GrowthStartRound = 99
	s.StartingStock = 100
	r := NewRoom("POND", s)
	alice, bob := joinTwo(t, r)

	require.NoError(t, r.Submit(alice.ID, 3))
	require.NoError(t, r.Submit(bob.ID, 9))

	rows := r.Snapshot(true).Scoreboard
	require.Len(t, rows, 2)
	assert.Equal(t, bob.ID, rows[0].PlayerID)
	assert.Equal(t, 9, rows[0].Total)
	assert.Equal(t, 9, rows[0].ByRound[1])
	assert.Equal(t, 1, rows[0].SeasonsSurvived)
}

func TestRoomNameDefaultsAndTruncation(t *testing.T) {
	t.Parallel()

	r := NewRoom("POND", testSettings())
	anon, err := r.Join("   ")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultName, anon.Name)

	long, err := r.Join("abcdefghijklmnopqrstuvwxyz-way-too-long")
	require.NoError(t, err)
	assert.Len(t, long.Name, domain.MaxNameLen)
}
