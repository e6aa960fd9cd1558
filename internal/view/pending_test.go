package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/chores/internal/view"
)

func TestOptimisticStyles(t *testing.T) {
	t.Parallel()

	done := view.OptimisticStyle(view.ActionComplete)
	assert.InDelta(t, 0.5, done.Opacity, 0)
	assert.True(t, done.Faded())
	assert.Equal(t, "opacity 0.5s ease-out", done.Transition)

	reopen := view.OptimisticStyle(view.ActionReopen)
	assert.InDelta(t, 1.0, reopen.Opacity, 0)
	assert.False(t, reopen.Faded())

	claim := view.OptimisticStyle(view.ActionClaim)
	assert.Equal(t, view.ClaimHighlight, claim.Background)
}

func TestPendingKeepsStyleOnFailure(t *testing.T) {
	t.Parallel()

	p := view.NewPending()
	k := view.RowKey{Section: view.MyChoresID, ChoreID: 1}

	p.Begin(k, view.ActionComplete)
	assert.Equal(t, 1, p.InFlight())
	assert.True(t, p.Style(k).Faded())

	p.Fail(k, false)
	assert.Equal(t, 0, p.InFlight())
	assert.True(t, p.Style(k).Faded(), "no rollback by default")
}

func TestPendingRollback(t *testing.T) {
	t.Parallel()

	p := view.NewPending()
	k := view.RowKey{Section: view.ClaimChoresID, ChoreID: 2}

	p.Begin(k, view.ActionClaim)
	assert.Equal(t, view.ClaimHighlight, p.Style(k).Background)

	p.Fail(k, true)
	assert.Equal(t, view.DefaultStyle, p.Style(k))
}

func TestPendingResetKeepsInFlight(t *testing.T) {
	t.Parallel()

	p := view.NewPending()
	done := view.RowKey{Section: view.MyChoresID, ChoreID: 1}
	busy := view.RowKey{Section: view.MyChoresID, ChoreID: 2}

	p.Begin(done, view.ActionComplete)
	p.Succeed(done)
	p.Begin(busy, view.ActionComplete)

	p.Reset()
	assert.Equal(t, view.DefaultStyle, p.Style(done))
	assert.True(t, p.State(busy).InFlight)
	assert.Equal(t, view.ActionComplete, p.State(busy).Action)
}

func TestSequencerDropsOvertakenResponses(t *testing.T) {
	t.Parallel()

	s := view.NewSequencer()
	first := s.Next("/chores")
	second := s.Next("/chores")
	other := s.Next("/points")

	assert.Equal(t, uint64(1), other, "endpoints count independently")

	assert.True(t, s.Accept("/chores", second))
	assert.False(t, s.Accept("/chores", first), "stale response")
	assert.False(t, s.Accept("/chores", second), "already applied")
	assert.True(t, s.Accept("/points", other))
}

func TestPendingTarget(t *testing.T) {
	t.Parallel()

	p := view.NewPending()
	k := view.RowKey{Section: view.MyChoresID, ChoreID: 3}
	assert.True(t, p.State(k).Checked(true), "no action: snapshot value")

	// snapshot says completed; the user unchecks
	p.BeginToggle(k, false)
	assert.False(t, p.State(k).Checked(true))
	assert.Equal(t, view.ActionReopen, p.State(k).Action)

	p.Fail(k, false)
	assert.False(t, p.State(k).Checked(true), "checkbox keeps the user's click")

	// and checks it again
	p.BeginToggle(k, true)
	assert.True(t, p.State(k).Checked(true))
	assert.Equal(t, view.ActionComplete, p.State(k).Action)

	p.Fail(k, true)
	assert.False(t, p.State(k).Checked(true), "rolled back to the failed uncheck")
	assert.False(t, p.Style(k).Faded())

	claim := view.RowKey{Section: view.ClaimChoresID, ChoreID: 3}
	p.Begin(claim, view.ActionClaim)
	assert.False(t, p.State(claim).HasTarget)
}

func TestPendingTargetSurvivesNewerSnapshot(t *testing.T) {
	t.Parallel()

	p := view.NewPending()
	k := view.RowKey{Section: view.MyChoresID, ChoreID: 1}

	// the user checks an open chore
	p.BeginToggle(k, true)

	// a reload lands after the server applied the completion but before
	// the post returned
	p.Reset()
	st := p.State(k)
	require.True(t, st.InFlight)
	assert.True(t, st.Checked(true), "new snapshot completed: still checked")
	assert.True(t, st.Checked(false), "old snapshot open: still checked")
}
