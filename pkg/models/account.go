// Package models contains domain types for openccp-engine.
package models

import (
	"time"
)

// Account represents an X account tracked by the engine. The ID is the
// platform-assigned identifier and is stable across fetches; the username
// is unique on the platform but may change over time.
type Account struct {
	ID              int64      `json:"id,string"`
	Username        string     `json:"username"`
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Location        *string    `json:"location,omitempty"`
	URL             *string    `json:"url,omitempty"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	PinnedTweetID   *int64     `json:"pinned_tweet_id,omitempty"`
	Verified        bool       `json:"verified"`
	VerifiedType    *string    `json:"verified_type,omitempty"`
	Protected       bool       `json:"protected"`
	FollowersCount  int        `json:"followers_count"`
	FollowingCount  int        `json:"following_count"`
	TweetCount      int        `json:"tweet_count"`
	ListedCount     int        `json:"listed_count"`
	LikeCount       int        `json:"like_count"`
	MediaCount      int        `json:"media_count"`
	Entities        JSONBMap   `json:"entities,omitempty"`
	IsSeed          bool       `json:"is_seed"`
	XCreatedAt      *time.Time `json:"x_created_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
