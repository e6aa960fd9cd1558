package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/chores/internal/model"
	"github.com/idilsaglam/chores/internal/view"
)

func TestRenderExample(t *testing.T) {
	t.Parallel()

	chores := []model.Chore{{ID: 1, Name: "Dishes", Points: 5, IsAssigned: true}}
	page := view.Render(model.PageContext{Username: "alice"}, chores)

	require.Len(t, page.Mine.Rows, 1)
	row := page.Mine.Rows[0]
	assert.Equal(t, "Dishes (5 points)", row.Label)
	assert.True(t, row.HasCheckbox)
	assert.False(t, row.Checked)
	require.NotNil(t, row.Form)
	assert.Equal(t, "form-1", row.Form.ID)
	assert.Equal(t, view.FormActionUpdate, row.Form.Action)
	assert.Equal(t, "1", row.Form.Values.Get("chore_id"))
	assert.Equal(t, "true", row.Form.Values.Get("completed"))

	assert.True(t, page.Claim.Empty())
	assert.Equal(t, view.NoClaimableText, page.Claim.Rows[0].Label)
	assert.Nil(t, page.Claim.Rows[0].Form)
	assert.Equal(t, "alice", page.Context.Username)
}

func TestCheckboxMirrorsCompleted(t *testing.T) {
	t.Parallel()

	chores := []model.Chore{
		{ID: 1, Name: "Dishes", Points: 5, Completed: true, IsAssigned: true},
		{ID: 2, Name: "Laundry", Points: 3, Completed: false, IsAssigned: true},
		{ID: 3, Name: "Vacuum", Points: 4, Completed: true, IsAssigned: true},
		{ID: 4, Name: "Trash", Points: 1, IsClaimable: true},
	}
	s := view.RenderAssigned(chores)
	require.Len(t, s.Rows, 3)

	byID := map[int]model.Chore{}
	for _, c := range chores {
		byID[c.ID] = c
	}
	for _, r := range s.Rows {
		c := byID[r.ChoreID]
		assert.Equal(t, c.Completed, r.Checked, c.Name)
		want := "true"
		if c.Completed {
			want = "false"
		}
		assert.Equal(t, want, r.Form.Values.Get("completed"), c.Name)
	}
}

func TestEmptySectionsShowOnePlaceholder(t *testing.T) {
	t.Parallel()

	for _, chores := range [][]model.Chore{
		nil,
		{{ID: 9, Name: "Mow", Points: 8}},
	} {
		page := view.Render(model.PageContext{}, chores)

		require.Len(t, page.Mine.Rows, 1)
		assert.True(t, page.Mine.Empty())
		assert.Equal(t, view.NoAssignedText, page.Mine.Rows[0].Label)
		assert.False(t, page.Mine.Rows[0].HasCheckbox)

		require.Len(t, page.Claim.Rows, 1)
		assert.True(t, page.Claim.Empty())
		assert.False(t, page.Claim.Rows[0].HasClaim)
	}
}

func TestClaimableRows(t *testing.T) {
	t.Parallel()

	s := view.RenderClaimable([]model.Chore{
		{ID: 4, Name: "Trash", Points: 1, IsClaimable: true},
		{ID: 5, Name: "Windows", Points: 6, IsAssigned: true},
	})
	require.Len(t, s.Rows, 1)
	assert.Equal(t, view.ClaimChoresID, s.ID)
	assert.False(t, s.Empty())

	r := s.Rows[0]
	assert.Equal(t, "Trash (1 points)", r.Label)
	assert.True(t, r.HasClaim)
	assert.Equal(t, "claim-form-4", r.Form.ID)
	assert.Equal(t, view.FormActionClaim, r.Form.Action)
	assert.Equal(t, "4", r.Form.Values.Get("chore_id"))
	assert.Len(t, r.Form.Values, 1)
}

func TestRenderIgnoresCurrentUserForFiltering(t *testing.T) {
	t.Parallel()

	chores := []model.Chore{
		{ID: 1, Name: "Dishes", Points: 5, IsAssigned: true, UserID: model.NullID{Int64: 42, Valid: true}},
	}
	a := view.Render(model.PageContext{Username: "alice"}, chores)
	b := view.Render(model.PageContext{Username: "bob"}, chores)
	assert.Equal(t, a.Mine, b.Mine)
	assert.Equal(t, a.Claim, b.Claim)
}
