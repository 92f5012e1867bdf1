package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openccp/openccp-engine/pkg/apperrors"
	"github.com/openccp/openccp-engine/pkg/models"
	"github.com/openccp/openccp-engine/pkg/testhelpers"
)

func TestRepositories_Integration(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	db := testDB.DB
	ctx := context.Background()

	accounts := NewAccountRepository(db)
	tweets := NewTweetRepository(db)
	follows := NewFollowRepository(db)
	camps := NewCampRepository(db)
	keywords := NewKeywordRepository(db)
	scores := NewScoreRepository(db)

	t.Run("account upsert keeps seed flag", func(t *testing.T) {
		testhelpers.Truncate(t, db, "accounts")

		bio := "AI researcher"
		require.NoError(t, accounts.Upsert(ctx, &models.Account{ID: 1, Username: "alice", Description: &bio, IsSeed: true}))
		// Re-crawl as a neighbor must not clear the seed flag.
		require.NoError(t, accounts.Upsert(ctx, &models.Account{ID: 1, Username: "alice", FollowersCount: 10}))

		stored, err := accounts.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, stored.IsSeed)
		assert.Equal(t, 10, stored.FollowersCount)

		missing, err := accounts.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("tweet upsert refreshes metrics only", func(t *testing.T) {
		testhelpers.Truncate(t, db, "accounts", "tweets")
		require.NoError(t, accounts.Upsert(ctx, &models.Account{ID: 1, Username: "alice"}))

		require.NoError(t, tweets.Upsert(ctx, &models.Tweet{ID: 100, AccountID: 1, Text: "hello", LikeCount: 1}))
		require.NoError(t, tweets.Upsert(ctx, &models.Tweet{ID: 100, AccountID: 1, Text: "edited", LikeCount: 5}))

		list, err := tweets.ListByAccount(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "hello", list[0].Text)
		assert.Equal(t, 5, list[0].LikeCount)
	})

	t.Run("follow create is idempotent", func(t *testing.T) {
		testhelpers.Truncate(t, db, "accounts", "follows")
		require.NoError(t, accounts.Upsert(ctx, &models.Account{ID: 1, Username: "alice"}))
		require.NoError(t, accounts.Upsert(ctx, &models.Account{ID: 2, Username: "bob"}))

		require.NoError(t, follows.Create(ctx, 1, 2))
		require.NoError(t, follows.Create(ctx, 1, 2))

		count, err := follows.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		ids, err := follows.ListFollowingIDs(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, ids)
	})

	t.Run("camp slug and keyword term conflicts", func(t *testing.T) {
		testhelpers.Truncate(t, db, "camps", "keywords")

		camp := &models.Camp{Name: "AI Safety", Slug: "ai-safety", Color: "#fff"}
		require.NoError(t, camps.Create(ctx, camp))
		assert.NotZero(t, camp.ID)

		err := camps.Create(ctx, &models.Camp{Name: "Other", Slug: "ai-safety", Color: "#fff"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		kw := &models.Keyword{Term: "alignment", Type: models.KeywordTypeSignal, CampID: &camp.ID, Weight: 2.0}
		require.NoError(t, keywords.Create(ctx, kw))

		err = keywords.Create(ctx, &models.Keyword{Term: "alignment", Type: models.KeywordTypeSignal, Weight: 1.0})
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		// Same term under another type is fine.
		require.NoError(t, keywords.Create(ctx, &models.Keyword{Term: "alignment", Type: models.KeywordTypeInclusion, Weight: 1.0}))

		campKws, err := keywords.ListByCamp(ctx, camp.ID)
		require.NoError(t, err)
		assert.Len(t, campKws, 1)

		require.NoError(t, keywords.Delete(ctx, kw.ID))
		assert.ErrorIs(t, keywords.Delete(ctx, kw.ID), apperrors.ErrNotFound)
	})

	t.Run("score upsert is idempotent per account and camp", func(t *testing.T) {
		testhelpers.Truncate(t, db, "accounts", "camps", "account_camp_scores")
		require.NoError(t, accounts.Upsert(ctx, &models.Account{ID: 1, Username: "alice"}))
		camp := &models.Camp{Name: "AI Safety", Slug: "ai-safety", Color: "#fff"}
		require.NoError(t, camps.Create(ctx, camp))

		score := &models.AccountCampScore{
			AccountID:  1,
			CampID:     camp.ID,
			Score:      6.0,
			BioScore:   4.0,
			TweetScore: 2.0,
			MatchDetails: models.MatchDetails{
				BioMatches: []models.KeywordMatch{{Term: "AI", Count: 1, Weight: 2.0}},
			},
			AnalyzedAt: time.Now().UTC(),
		}
		require.NoError(t, scores.Upsert(ctx, score))

		score.Score = 8.0
		score.AnalyzedAt = time.Now().UTC()
		require.NoError(t, scores.Upsert(ctx, score))

		stored, err := scores.Get(ctx, 1, camp.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.InDelta(t, 8.0, stored.Score, 1e-9)
		require.Len(t, stored.MatchDetails.BioMatches, 1)

		list, err := scores.ListByAccount(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		board, err := scores.Leaderboard(ctx, camp.ID, 10)
		require.NoError(t, err)
		require.Len(t, board, 1)
		assert.Equal(t, "alice", board[0].Username)
	})
}
