package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Keyword type constants. Signal keywords contribute to camp scoring;
// inclusion/exclusion keywords are global filters applied during crawling.
const (
	KeywordTypeSignal    = "signal"
	KeywordTypeInclusion = "inclusion"
	KeywordTypeExclusion = "exclusion"
)

// IsValidKeywordType reports whether t is a recognized keyword type.
func IsValidKeywordType(t string) bool {
	switch t {
	case KeywordTypeSignal, KeywordTypeInclusion, KeywordTypeExclusion:
		return true
	}
	return false
}

// Camp is a named affinity group. Accounts are scored against each camp by
// weighted keyword matching over their bio and tweets.
type Camp struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// Keyword is a weighted literal term. CampID is nil for global
// inclusion/exclusion keywords and for signal keywords pending assignment.
// Weight is a signed float; negative weights act as exclusionary signals.
type Keyword struct {
	ID            int64     `json:"id"`
	Term          string    `json:"term"`
	Type          string    `json:"type"`
	CampID        *int64    `json:"camp_id,omitempty"`
	Weight        float64   `json:"weight"`
	CaseSensitive bool      `json:"case_sensitive"`
	CreatedAt     time.Time `json:"created_at"`
}

// KeywordMatch records one matched term and how often it occurred.
type KeywordMatch struct {
	Term   string  `json:"term"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// MatchDetails holds the per-term breakdown behind a camp score, split by
// where the matches were found. Stored as JSONB.
type MatchDetails struct {
	BioMatches   []KeywordMatch `json:"bio_matches"`
	TweetMatches []KeywordMatch `json:"tweet_matches"`
}

// Value implements driver.Valuer for database serialization.
func (m MatchDetails) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database deserialization.
func (m *MatchDetails) Scan(value interface{}) error {
	if value == nil {
		*m = MatchDetails{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into MatchDetails", value)
	}

	return json.Unmarshal(bytes, m)
}

// LeaderboardEntry is one row of a camp leaderboard: the account joined with
// its score, ordered by score descending.
type LeaderboardEntry struct {
	AccountID  int64     `json:"account_id,string"`
	Username   string    `json:"username"`
	Name       *string   `json:"name,omitempty"`
	Score      float64   `json:"score"`
	BioScore   float64   `json:"bio_score"`
	TweetScore float64   `json:"tweet_score"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// AccountCampScore is the persisted score of one account against one camp.
// Rows are keyed on (AccountID, CampID) and fully replaced on every analysis
// run; re-analyzing with unchanged keywords and text produces identical
// scores and match details.
type AccountCampScore struct {
	AccountID    int64        `json:"account_id,string"`
	CampID       int64        `json:"camp_id"`
	Score        float64      `json:"score"`
	BioScore     float64      `json:"bio_score"`
	TweetScore   float64      `json:"tweet_score"`
	MatchDetails MatchDetails `json:"match_details"`
	AnalyzedAt   time.Time    `json:"analyzed_at"`
}
