package xapi

import (
	"strconv"
	"time"

	"github.com/openccp/openccp-engine/pkg/models"
)

// Normalization is deliberately lossy-tolerant: missing counters become zero,
// missing flags false, unparsable timestamps and ids become absent. A raw
// payload never fails to normalize.

// NormalizeUser converts a raw user payload into an Account value. The
// returned value is transient; persistence is the repository's concern.
func NormalizeUser(raw *RawUser) *models.Account {
	return &models.Account{
		ID:              parseID(raw.ID),
		Username:        raw.Username,
		Name:            optString(raw.Name),
		Description:     optString(raw.Description),
		Location:        optString(raw.Location),
		URL:             optString(raw.URL),
		ProfileImageURL: optString(raw.ProfileImageURL),
		PinnedTweetID:   optID(raw.PinnedTweetID),
		Verified:        raw.Verified,
		VerifiedType:    optString(raw.VerifiedType),
		Protected:       raw.Protected,
		FollowersCount:  raw.PublicMetrics.FollowersCount,
		FollowingCount:  raw.PublicMetrics.FollowingCount,
		TweetCount:      raw.PublicMetrics.TweetCount,
		ListedCount:     raw.PublicMetrics.ListedCount,
		LikeCount:       raw.PublicMetrics.LikeCount,
		MediaCount:      raw.PublicMetrics.MediaCount,
		Entities:        raw.Entities,
		XCreatedAt:      parseTime(raw.CreatedAt),
	}
}

// NormalizeTweet converts a raw tweet payload into a Tweet value.
func NormalizeTweet(raw *RawTweet) *models.Tweet {
	return &models.Tweet{
		ID:               parseID(raw.ID),
		AccountID:        parseID(raw.AuthorID),
		Text:             raw.Text,
		Lang:             optString(raw.Lang),
		ConversationID:   optID(raw.ConversationID),
		InReplyToUserID:  optID(raw.InReplyToUserID),
		ReferencedTweets: raw.ReferencedTweets,
		RetweetCount:     raw.PublicMetrics.RetweetCount,
		ReplyCount:       raw.PublicMetrics.ReplyCount,
		LikeCount:        raw.PublicMetrics.LikeCount,
		QuoteCount:       raw.PublicMetrics.QuoteCount,
		BookmarkCount:    raw.PublicMetrics.BookmarkCount,
		ImpressionCount:  raw.PublicMetrics.ImpressionCount,
		Entities:         raw.Entities,
		XCreatedAt:       parseTime(raw.CreatedAt),
	}
}

// parseTime parses an X API timestamp (RFC 3339 with Z suffix). Malformed or
// empty input yields nil, never an error.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// parseID parses a numeric identifier that the API serializes as a string.
func parseID(s string) int64 {
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// optID parses an optional identifier field; empty or malformed is absent.
func optID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// optString maps an empty field to absent.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
