package xapi

// Field sets requested on every call. Matches what the normalizer knows how
// to map; anything else the API returns is ignored.
var (
	UserFields = []string{
		"created_at",
		"description",
		"entities",
		"id",
		"location",
		"name",
		"pinned_tweet_id",
		"profile_image_url",
		"protected",
		"public_metrics",
		"url",
		"username",
		"verified",
		"verified_type",
	}

	TweetFields = []string{
		"author_id",
		"conversation_id",
		"created_at",
		"entities",
		"id",
		"in_reply_to_user_id",
		"lang",
		"public_metrics",
		"referenced_tweets",
		"text",
	}
)

// RawUser is the wire shape of a user object from the X API v2. Identifiers
// arrive as strings and optional fields may be absent entirely.
type RawUser struct {
	ID              string                   `json:"id"`
	Username        string                   `json:"username"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	Location        string                   `json:"location"`
	URL             string                   `json:"url"`
	ProfileImageURL string                   `json:"profile_image_url"`
	PinnedTweetID   string                   `json:"pinned_tweet_id"`
	Verified        bool                     `json:"verified"`
	VerifiedType    string                   `json:"verified_type"`
	Protected       bool                     `json:"protected"`
	PublicMetrics   RawUserMetrics           `json:"public_metrics"`
	Entities        map[string]interface{}   `json:"entities"`
	CreatedAt       string                   `json:"created_at"`
}

// RawUserMetrics is the nested public_metrics object of a user payload.
type RawUserMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
	LikeCount      int `json:"like_count"`
	MediaCount     int `json:"media_count"`
}

// RawTweet is the wire shape of a tweet object from the X API v2.
type RawTweet struct {
	ID               string                   `json:"id"`
	AuthorID         string                   `json:"author_id"`
	Text             string                   `json:"text"`
	Lang             string                   `json:"lang"`
	ConversationID   string                   `json:"conversation_id"`
	InReplyToUserID  string                   `json:"in_reply_to_user_id"`
	ReferencedTweets []map[string]interface{} `json:"referenced_tweets"`
	PublicMetrics    RawTweetMetrics          `json:"public_metrics"`
	Entities         map[string]interface{}   `json:"entities"`
	CreatedAt        string                   `json:"created_at"`
}

// RawTweetMetrics is the nested public_metrics object of a tweet payload.
type RawTweetMetrics struct {
	RetweetCount    int `json:"retweet_count"`
	ReplyCount      int `json:"reply_count"`
	LikeCount       int `json:"like_count"`
	QuoteCount      int `json:"quote_count"`
	BookmarkCount   int `json:"bookmark_count"`
	ImpressionCount int `json:"impression_count"`
}
