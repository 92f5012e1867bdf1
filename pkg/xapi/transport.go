package xapi

import (
	"context"
)

// Pager yields successive raw pages of a cursor-paginated listing call.
// Pages must be requested in cursor order; Next returns ErrNoMorePages once
// the stream is exhausted.
type Pager[T any] interface {
	Next(ctx context.Context) ([]T, error)
}

// Transport is the resource-oriented call surface of the X API. The engine
// depends only on this contract plus the APIError status codes; the concrete
// HTTP client behind it is interchangeable.
type Transport interface {
	// UserByUsername fetches one user by handle. A nil result with nil error
	// means the API returned no data for the handle.
	UserByUsername(ctx context.Context, username string) (*RawUser, error)

	// UserByID fetches one user by platform id.
	UserByID(ctx context.Context, id int64) (*RawUser, error)

	// TweetsByIDs fetches up to 100 tweets in one batch call.
	TweetsByIDs(ctx context.Context, ids []int64) ([]RawTweet, error)

	// UserTweets returns a pager over the user's recent tweets, newest first.
	UserTweets(id int64, perPage int) Pager[RawTweet]

	// Following returns a pager over accounts the user follows.
	Following(id int64, perPage int) Pager[RawUser]

	// Followers returns a pager over accounts following the user.
	Followers(id int64, perPage int) Pager[RawUser]
}
