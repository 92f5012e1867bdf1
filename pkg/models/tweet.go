package models

import (
	"time"
)

// Tweet represents a single post fetched from the X API. AccountID references
// the owning Account; referential integrity is enforced by the database, not
// by the ingestion path.
type Tweet struct {
	ID              int64      `json:"id,string"`
	AccountID       int64      `json:"account_id,string"`
	Text            string     `json:"text"`
	Lang            *string    `json:"lang,omitempty"`
	ConversationID  *int64     `json:"conversation_id,omitempty"`
	InReplyToUserID *int64     `json:"in_reply_to_user_id,omitempty"`
	ReferencedTweets JSONBSlice `json:"referenced_tweets,omitempty"`
	RetweetCount    int        `json:"retweet_count"`
	ReplyCount      int        `json:"reply_count"`
	LikeCount       int        `json:"like_count"`
	QuoteCount      int        `json:"quote_count"`
	BookmarkCount   int        `json:"bookmark_count"`
	ImpressionCount int        `json:"impression_count"`
	Entities        JSONBMap   `json:"entities,omitempty"`
	XCreatedAt      *time.Time `json:"x_created_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Follow is a directed edge meaning "follower follows following".
type Follow struct {
	FollowerID  int64     `json:"follower_id,string"`
	FollowingID int64     `json:"following_id,string"`
	CreatedAt   time.Time `json:"created_at"`
}
