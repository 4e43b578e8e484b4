package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCount(t *testing.T, res *models.Response) int {
	t.Helper()
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	count, ok := data["newCount"].(int)
	require.True(t, ok)
	return count
}

func TestCastRejectsInvalidVoteType(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleMember)
	post := env.seedPost(t, owner.ID, "p")

	res := env.vote.Cast(context.Background(), owner.ID, post.ID, models.TargetPost, "sideways")
	assert.Equal(t, 400, res.Status)

	// Nothing was silently defaulted.
	got, err := env.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.VoteCount)
}

func TestCastRejectsInvalidTargetType(t *testing.T) {
	env := newTestEnv(t)
	res := env.vote.Cast(context.Background(), "u1", "t1", "page", models.VoteUp)
	assert.Equal(t, 400, res.Status)
}

func TestCastMissingTargetIs404(t *testing.T) {
	env := newTestEnv(t)
	res := env.vote.Cast(context.Background(), "u1", "missing", models.TargetPost, models.VoteUp)
	assert.Equal(t, 404, res.Status)
}

func TestCastOnPostAndComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, models.RoleMember)
	voter := env.seedUser(t, models.RoleMember)
	post := env.seedPost(t, owner.ID, "p")

	res := env.content.AddComment(ctx, owner.ID, post.ID, "c")
	require.Equal(t, 201, res.Status)
	comment := res.Data.(*models.Comment)

	res = env.vote.Cast(ctx, voter.ID, post.ID, models.TargetPost, models.VoteUp)
	require.Equal(t, 200, res.Status)
	assert.Equal(t, 1, newCount(t, res))

	res = env.vote.Cast(ctx, voter.ID, comment.ID, models.TargetComment, models.VoteDown)
	require.Equal(t, 200, res.Status)
	assert.Equal(t, -1, newCount(t, res))
}

func TestCastRepeatAndFlipSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, models.RoleMember)
	voter := env.seedUser(t, models.RoleMember)
	post := env.seedPost(t, owner.ID, "p")

	res := env.vote.Cast(ctx, voter.ID, post.ID, models.TargetPost, models.VoteUp)
	assert.Equal(t, 1, newCount(t, res))

	// Same direction again: idempotent.
	res = env.vote.Cast(ctx, voter.ID, post.ID, models.TargetPost, models.VoteUp)
	assert.Equal(t, 1, newCount(t, res))

	// Flip: the net score moves by two.
	res = env.vote.Cast(ctx, voter.ID, post.ID, models.TargetPost, models.VoteDown)
	assert.Equal(t, -1, newCount(t, res))

	history := env.vote.History(ctx, models.TargetPost, post.ID)
	require.Equal(t, 200, history.Status)
	votes, ok := history.Data.([]models.Vote)
	require.True(t, ok)
	require.Len(t, votes, 1)
	assert.Equal(t, models.VoteDown, votes[0].VoteType)
}

func TestConcurrentVotersYieldExactNetCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, models.RoleMember)
	post := env.seedPost(t, owner.ID, "p")

	const ups, downs = 15, 6
	var wg sync.WaitGroup
	statuses := make(chan int, ups+downs)

	wg.Add(ups + downs)
	for i := 0; i < ups; i++ {
		go func(i int) {
			defer wg.Done()
			res := env.vote.Cast(ctx, fmt.Sprintf("up-%d", i), post.ID, models.TargetPost, models.VoteUp)
			statuses <- res.Status
		}(i)
	}
	for i := 0; i < downs; i++ {
		go func(i int) {
			defer wg.Done()
			res := env.vote.Cast(ctx, fmt.Sprintf("down-%d", i), post.ID, models.TargetPost, models.VoteDown)
			statuses <- res.Status
		}(i)
	}
	wg.Wait()
	close(statuses)
	for status := range statuses {
		require.Equal(t, 200, status)
	}

	got, err := env.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ups-downs, got.VoteCount)
	assert.Equal(t, ups, got.Upvotes)
	assert.Equal(t, downs, got.Downvotes)
}
