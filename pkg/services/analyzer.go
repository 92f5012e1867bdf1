// Package services holds the engine's business logic: camp scoring, graph
// crawling, and the read surfaces behind the REST API.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/apperrors"
	"github.com/openccp/openccp-engine/pkg/models"
	"github.com/openccp/openccp-engine/pkg/repositories"
)

// bioWeightMultiplier doubles bio matches relative to tweet matches:
// self-described affiliation is a stronger signal than incidental word usage.
const bioWeightMultiplier = 2.0

// CampAnalysis is the result of scoring one account against one camp.
type CampAnalysis struct {
	Camp         *models.Camp          `json:"camp"`
	Score        float64               `json:"score"`
	BioScore     float64               `json:"bio_score"`
	TweetScore   float64               `json:"tweet_score"`
	BioMatches   []models.KeywordMatch `json:"bio_matches"`
	TweetMatches []models.KeywordMatch `json:"tweet_matches"`
}

// AnalysisStats aggregates a bulk analysis run.
type AnalysisStats struct {
	Analyzed    int `json:"analyzed"`
	TotalScores int `json:"total_scores"`
	Failed      int `json:"failed"`
}

// AnalyzerService scores accounts against camps by weighted keyword matching
// and manages camps and keywords.
type AnalyzerService interface {
	AnalyzeAccount(ctx context.Context, account *models.Account) (map[int64]*CampAnalysis, error)
	AnalyzeAndSave(ctx context.Context, account *models.Account) (map[int64]*models.AccountCampScore, error)
	AnalyzeAllAccounts(ctx context.Context) (*AnalysisStats, error)

	Leaderboard(ctx context.Context, campID int64, limit int) ([]*models.LeaderboardEntry, error)
	AccountScores(ctx context.Context, accountID int64) ([]*models.AccountCampScore, error)

	CreateCamp(ctx context.Context, camp *models.Camp) error
	GetCamps(ctx context.Context) ([]*models.Camp, error)
	GetCamp(ctx context.Context, id int64) (*models.Camp, error)
	GetCampBySlug(ctx context.Context, slug string) (*models.Camp, error)
	AddKeywordToCamp(ctx context.Context, campID int64, term string, weight float64, caseSensitive bool) (*models.Keyword, error)
	GetCampKeywords(ctx context.Context, campID int64) ([]*models.Keyword, error)

	ListKeywords(ctx context.Context) ([]*models.Keyword, error)
	CreateKeyword(ctx context.Context, term, keywordType string, caseSensitive bool) (*models.Keyword, error)
	DeleteKeyword(ctx context.Context, id int64) error
}

var _ AnalyzerService = (*analyzerService)(nil)

type analyzerService struct {
	accounts repositories.AccountRepository
	tweets   repositories.TweetRepository
	camps    repositories.CampRepository
	keywords repositories.KeywordRepository
	scores   repositories.ScoreRepository
	logger   *zap.Logger
}

// NewAnalyzerService creates the analyzer with its repositories.
func NewAnalyzerService(
	accounts repositories.AccountRepository,
	tweets repositories.TweetRepository,
	camps repositories.CampRepository,
	keywords repositories.KeywordRepository,
	scores repositories.ScoreRepository,
	logger *zap.Logger,
) AnalyzerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analyzerService{
		accounts: accounts,
		tweets:   tweets,
		camps:    camps,
		keywords: keywords,
		scores:   scores,
		logger:   logger,
	}
}

// AnalyzeAccount scores one account across all camps. Camps without keywords
// are skipped entirely: they are absent from the result, not present with a
// zero score. The analysis itself is a pure function of stored content.
func (s *analyzerService) AnalyzeAccount(ctx context.Context, account *models.Account) (map[int64]*CampAnalysis, error) {
	camps, err := s.camps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load camps: %w", err)
	}

	tweets, err := s.tweets.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tweets: %w", err)
	}

	texts := make([]string, 0, len(tweets))
	for _, tweet := range tweets {
		texts = append(texts, tweet.Text)
	}
	tweetBlob := strings.Join(texts, " ")

	bio := ""
	if account.Description != nil {
		bio = *account.Description
	}

	results := make(map[int64]*CampAnalysis)
	for _, camp := range camps {
		keywords, err := s.keywords.ListByCamp(ctx, camp.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load keywords for camp %q: %w", camp.Slug, err)
		}
		if len(keywords) == 0 {
			continue
		}

		bioHits := findMatches(bio, keywords)
		bioScore := computeScore(bioHits) * bioWeightMultiplier

		tweetHits := findMatches(tweetBlob, keywords)
		tweetScore := computeScore(tweetHits)

		results[camp.ID] = &CampAnalysis{
			Camp:         camp,
			Score:        bioScore + tweetScore,
			BioScore:     bioScore,
			TweetScore:   tweetScore,
			BioMatches:   toMatchDetails(bioHits),
			TweetMatches: toMatchDetails(tweetHits),
		}
	}

	return results, nil
}

// AnalyzeAndSave analyzes the account and upserts one score row per camp.
// Each row is replaced wholesale in a single atomic statement; analyzing
// twice with unchanged inputs stores identical scores and match details,
// only the timestamp moves.
func (s *analyzerService) AnalyzeAndSave(ctx context.Context, account *models.Account) (map[int64]*models.AccountCampScore, error) {
	results, err := s.AnalyzeAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	saved := make(map[int64]*models.AccountCampScore, len(results))
	for campID, analysis := range results {
		score := &models.AccountCampScore{
			AccountID:  account.ID,
			CampID:     campID,
			Score:      analysis.Score,
			BioScore:   analysis.BioScore,
			TweetScore: analysis.TweetScore,
			MatchDetails: models.MatchDetails{
				BioMatches:   analysis.BioMatches,
				TweetMatches: analysis.TweetMatches,
			},
			AnalyzedAt: now,
		}
		if err := s.scores.Upsert(ctx, score); err != nil {
			return nil, err
		}
		saved[campID] = score
	}

	return saved, nil
}

// AnalyzeAllAccounts re-analyzes every stored account. Failures are isolated
// per account and reported in the stats; cancellation is checked between
// accounts, never mid-analysis.
func (s *analyzerService) AnalyzeAllAccounts(ctx context.Context) (*AnalysisStats, error) {
	accounts, err := s.accounts.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	stats := &AnalysisStats{}
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		saved, err := s.AnalyzeAndSave(ctx, account)
		if err != nil {
			stats.Failed++
			s.logger.Warn("Failed to analyze account",
				zap.String("username", account.Username),
				zap.Error(err))
			continue
		}

		stats.Analyzed++
		stats.TotalScores += len(saved)
		s.logger.Info("Analyzed account",
			zap.String("username", account.Username),
			zap.Int("camp_scores", len(saved)))
	}

	return stats, nil
}

func (s *analyzerService) Leaderboard(ctx context.Context, campID int64, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.scores.Leaderboard(ctx, campID, limit)
}

func (s *analyzerService) AccountScores(ctx context.Context, accountID int64) ([]*models.AccountCampScore, error) {
	return s.scores.ListByAccount(ctx, accountID)
}

// CreateCamp validates and inserts a camp. Duplicate slugs surface as
// apperrors.ErrConflict from the repository.
func (s *analyzerService) CreateCamp(ctx context.Context, camp *models.Camp) error {
	if camp.Name == "" {
		return fmt.Errorf("camp name is required")
	}
	if camp.Slug == "" {
		return fmt.Errorf("camp slug is required")
	}
	if camp.Color == "" {
		camp.Color = "#3b82f6"
	}
	return s.camps.Create(ctx, camp)
}

func (s *analyzerService) GetCamps(ctx context.Context) ([]*models.Camp, error) {
	return s.camps.List(ctx)
}

func (s *analyzerService) GetCamp(ctx context.Context, id int64) (*models.Camp, error) {
	return s.camps.GetByID(ctx, id)
}

func (s *analyzerService) GetCampBySlug(ctx context.Context, slug string) (*models.Camp, error) {
	return s.camps.GetBySlug(ctx, slug)
}

// AddKeywordToCamp attaches a signal keyword to an existing camp.
func (s *analyzerService) AddKeywordToCamp(ctx context.Context, campID int64, term string, weight float64, caseSensitive bool) (*models.Keyword, error) {
	if term == "" {
		return nil, fmt.Errorf("keyword term is required")
	}

	camp, err := s.camps.GetByID(ctx, campID)
	if err != nil {
		return nil, err
	}
	if camp == nil {
		return nil, apperrors.ErrNotFound
	}

	keyword := &models.Keyword{
		Term:          term,
		Type:          models.KeywordTypeSignal,
		CampID:        &campID,
		Weight:        weight,
		CaseSensitive: caseSensitive,
	}
	if err := s.keywords.Create(ctx, keyword); err != nil {
		return nil, err
	}
	return keyword, nil
}

func (s *analyzerService) GetCampKeywords(ctx context.Context, campID int64) ([]*models.Keyword, error) {
	return s.keywords.ListByCamp(ctx, campID)
}

func (s *analyzerService) ListKeywords(ctx context.Context) ([]*models.Keyword, error) {
	return s.keywords.List(ctx)
}

// CreateKeyword creates a global inclusion/exclusion filter keyword. Signal
// keywords are created through AddKeywordToCamp instead.
func (s *analyzerService) CreateKeyword(ctx context.Context, term, keywordType string, caseSensitive bool) (*models.Keyword, error) {
	if term == "" {
		return nil, fmt.Errorf("keyword term is required")
	}
	if keywordType != models.KeywordTypeInclusion && keywordType != models.KeywordTypeExclusion {
		return nil, apperrors.ErrInvalidKeywordType
	}

	existing, err := s.keywords.GetByTermAndType(ctx, term, keywordType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrConflict
	}

	keyword := &models.Keyword{
		Term:          term,
		Type:          keywordType,
		Weight:        1.0,
		CaseSensitive: caseSensitive,
	}
	if err := s.keywords.Create(ctx, keyword); err != nil {
		return nil, err
	}
	return keyword, nil
}

func (s *analyzerService) DeleteKeyword(ctx context.Context, id int64) error {
	return s.keywords.Delete(ctx, id)
}
