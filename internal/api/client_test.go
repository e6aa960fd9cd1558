package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/chores/internal/api"
	"github.com/idilsaglam/chores/internal/api/apitest"
	"github.com/idilsaglam/chores/internal/model"
)

func newClient(t *testing.T, srv *apitest.Server, opts ...api.Option) *api.Client {
	t.Helper()

	opts = append([]api.Option{api.WithSession(srv.SessionID())}, opts...)
	c, err := api.NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := api.NewClient("ftp://example.org")
	require.Error(t, err)
	_, err = api.NewClient("://nope")
	require.Error(t, err)
}

func TestChoresAndPoints(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.SetChores(model.Chore{ID: 1, Name: "Dishes", Points: 5, IsAssigned: true})
	srv.SetPoints(model.PointsData{DailyData: []int{0, 3, 0}, WeeklyData: []int{1, 2}})

	c := newClient(t, srv)
	ctx := context.Background()

	chores, err := c.Chores(ctx)
	require.NoError(t, err)
	require.Len(t, chores, 1)
	assert.Equal(t, "Dishes", chores[0].Name)
	assert.True(t, chores[0].IsAssigned)

	pts, err := c.Points(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 0}, pts.DailyData)
	assert.Equal(t, []int{1, 2}, pts.WeeklyData)
}

func TestUpdateAndClaimPostForms(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.SetChores(
		model.Chore{ID: 1, Name: "Dishes", Points: 5, IsAssigned: true},
		model.Chore{ID: 2, Name: "Trash", Points: 2, IsClaimable: true},
	)
	c := newClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.UpdateChore(ctx, 1, true))
	require.NoError(t, c.ClaimChore(ctx, 2))

	updates := srv.Posts(api.PathChoreUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, "1", updates[0].Get("chore_id"))
	assert.Equal(t, "true", updates[0].Get("completed"))

	claims := srv.Posts(api.PathChoreClaim)
	require.Len(t, claims, 1)
	assert.Equal(t, "2", claims[0].Get("chore_id"))

	chores := srv.Chores()
	assert.True(t, chores[0].Completed)
	assert.True(t, chores[1].IsAssigned)
	assert.False(t, chores[1].IsClaimable)
}

func TestStatusErrors(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Fail(api.PathChores, http.StatusInternalServerError)
	c := newClient(t, srv)

	_, err := c.Chores(context.Background())
	var serr *api.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.Code)
	assert.Contains(t, serr.Error(), "Internal Server Error")
}

func TestUnauthorized(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Chores(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	// posts are answered with a redirect to the login page, which must not
	// be mistaken for success
	err = c.ClaimChore(ctx, 1)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, srv.Posts(api.PathChoreClaim))
}

func TestLoginLogout(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Login(ctx, apitest.Username, "wrong")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)

	ck, err := c.Login(ctx, apitest.Username, apitest.Password)
	require.NoError(t, err)
	assert.Equal(t, srv.SessionID(), ck.Value)

	_, err = c.Chores(ctx)
	require.NoError(t, err, "login cookie is reused")

	require.NoError(t, c.Logout(ctx))
	_, err = c.Chores(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	c := newClient(t, srv)
	srv.Close()

	_, err := c.Points(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")
}
