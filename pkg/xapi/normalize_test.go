package xapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUser_FullPayload(t *testing.T) {
	raw := &RawUser{
		ID:              "44196397",
		Username:        "someuser",
		Name:            "Some User",
		Description:     "AI safety researcher",
		Location:        "SF",
		PinnedTweetID:   "1585341984679469056",
		Verified:        true,
		VerifiedType:    "blue",
		Protected:       false,
		PublicMetrics:   RawUserMetrics{FollowersCount: 100, FollowingCount: 50, TweetCount: 2000, ListedCount: 3, LikeCount: 12, MediaCount: 7},
		Entities:        map[string]interface{}{"url": map[string]interface{}{}},
		CreatedAt:       "2009-06-02T20:12:29Z",
	}

	account := NormalizeUser(raw)

	assert.Equal(t, int64(44196397), account.ID)
	assert.Equal(t, "someuser", account.Username)
	require.NotNil(t, account.Name)
	assert.Equal(t, "Some User", *account.Name)
	require.NotNil(t, account.PinnedTweetID)
	assert.Equal(t, int64(1585341984679469056), *account.PinnedTweetID)
	assert.True(t, account.Verified)
	assert.Equal(t, 100, account.FollowersCount)
	assert.Equal(t, 7, account.MediaCount)
	require.NotNil(t, account.XCreatedAt)
	assert.Equal(t, time.Date(2009, 6, 2, 20, 12, 29, 0, time.UTC), account.XCreatedAt.UTC())
}

func TestNormalizeUser_MissingOptionalFields(t *testing.T) {
	raw := &RawUser{
		ID:       "123",
		Username: "minimal",
	}

	account := NormalizeUser(raw)

	assert.Equal(t, int64(123), account.ID)
	assert.Nil(t, account.Name)
	assert.Nil(t, account.Description)
	assert.Nil(t, account.PinnedTweetID, "missing pinned tweet must be absent, not zero")
	assert.Nil(t, account.XCreatedAt)
	assert.False(t, account.Verified)
	assert.False(t, account.Protected)
	assert.Zero(t, account.FollowersCount)
	assert.Zero(t, account.TweetCount)
}

func TestNormalizeUser_MalformedTimestampAndID(t *testing.T) {
	raw := &RawUser{
		ID:            "not-a-number",
		Username:      "broken",
		PinnedTweetID: "also-not-a-number",
		CreatedAt:     "June 2nd 2009",
	}

	account := NormalizeUser(raw)

	assert.Zero(t, account.ID)
	assert.Nil(t, account.PinnedTweetID)
	assert.Nil(t, account.XCreatedAt, "malformed timestamp degrades to absent, not an error")
}

func TestNormalizeTweet_FullPayload(t *testing.T) {
	raw := &RawTweet{
		ID:               "1001",
		AuthorID:         "123",
		Text:             "AI is the future",
		Lang:             "en",
		ConversationID:   "1000",
		InReplyToUserID:  "77",
		ReferencedTweets: []map[string]interface{}{{"type": "retweeted", "id": "999"}},
		PublicMetrics:    RawTweetMetrics{RetweetCount: 5, ReplyCount: 1, LikeCount: 10, QuoteCount: 2, BookmarkCount: 3, ImpressionCount: 400},
		CreatedAt:        "2024-01-15T08:30:00Z",
	}

	tweet := NormalizeTweet(raw)

	assert.Equal(t, int64(1001), tweet.ID)
	assert.Equal(t, int64(123), tweet.AccountID)
	assert.Equal(t, "AI is the future", tweet.Text)
	require.NotNil(t, tweet.Lang)
	assert.Equal(t, "en", *tweet.Lang)
	require.NotNil(t, tweet.ConversationID)
	assert.Equal(t, int64(1000), *tweet.ConversationID)
	require.NotNil(t, tweet.InReplyToUserID)
	assert.Equal(t, int64(77), *tweet.InReplyToUserID)
	assert.Len(t, tweet.ReferencedTweets, 1)
	assert.Equal(t, 400, tweet.ImpressionCount)
	require.NotNil(t, tweet.XCreatedAt)
}

func TestNormalizeTweet_MissingOptionalFields(t *testing.T) {
	raw := &RawTweet{
		ID:       "1001",
		AuthorID: "123",
		Text:     "hello",
	}

	tweet := NormalizeTweet(raw)

	assert.Nil(t, tweet.Lang)
	assert.Nil(t, tweet.ConversationID)
	assert.Nil(t, tweet.InReplyToUserID)
	assert.Nil(t, tweet.ReferencedTweets)
	assert.Zero(t, tweet.RetweetCount)
	assert.Zero(t, tweet.ImpressionCount)
	assert.Nil(t, tweet.XCreatedAt)
}
