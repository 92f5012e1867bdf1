package services

import (
	"context"
	"fmt"

	"github.com/openccp/openccp-engine/pkg/repositories"
)

// Stats is a snapshot of database row counts.
type Stats struct {
	Accounts int `json:"accounts"`
	Seeds    int `json:"seeds"`
	Tweets   int `json:"tweets"`
	Follows  int `json:"follows"`
	Keywords int `json:"keywords"`
}

// StatsService reports aggregate counts across the stored data.
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}

var _ StatsService = (*statsService)(nil)

type statsService struct {
	accounts repositories.AccountRepository
	tweets   repositories.TweetRepository
	follows  repositories.FollowRepository
	keywords repositories.KeywordRepository
}

// NewStatsService creates the stats service with its repositories.
func NewStatsService(
	accounts repositories.AccountRepository,
	tweets repositories.TweetRepository,
	follows repositories.FollowRepository,
	keywords repositories.KeywordRepository,
) StatsService {
	return &statsService{
		accounts: accounts,
		tweets:   tweets,
		follows:  follows,
		keywords: keywords,
	}
}

func (s *statsService) Stats(ctx context.Context) (*Stats, error) {
	accounts, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	seeds, err := s.accounts.CountSeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count seed accounts: %w", err)
	}
	tweets, err := s.tweets.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tweets: %w", err)
	}
	follows, err := s.follows.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count follows: %w", err)
	}
	keywords, err := s.keywords.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count keywords: %w", err)
	}

	return &Stats{
		Accounts: accounts,
		Seeds:    seeds,
		Tweets:   tweets,
		Follows:  follows,
		Keywords: keywords,
	}, nil
}
