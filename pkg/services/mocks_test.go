package services

import (
	"context"
	"sync"

	"github.com/openccp/openccp-engine/pkg/apperrors"
	"github.com/openccp/openccp-engine/pkg/models"
)

// mockAccountRepo implements repositories.AccountRepository for testing.
type mockAccountRepo struct {
	mu        sync.Mutex
	accounts  map[int64]*models.Account
	upsertErr error
	listErr   error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[int64]*models.Account)}
}

func (m *mockAccountRepo) Upsert(_ context.Context, account *models.Account) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.accounts[account.ID]; ok && existing.IsSeed {
		account.IsSeed = true
	}
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id], nil
}

func (m *mockAccountRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) List(_ context.Context, seedsOnly bool) ([]*models.Account, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Account
	for _, a := range m.accounts {
		if seedsOnly && !a.IsSeed {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *mockAccountRepo) ListByIDs(_ context.Context, ids []int64) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Account
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAccountRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

func (m *mockAccountRepo) CountSeeds(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.accounts {
		if a.IsSeed {
			n++
		}
	}
	return n, nil
}

// mockTweetRepo implements repositories.TweetRepository for testing.
type mockTweetRepo struct {
	mu        sync.Mutex
	tweets    map[int64]*models.Tweet
	upsertErr error
	listErr   error
}

func newMockTweetRepo() *mockTweetRepo {
	return &mockTweetRepo{tweets: make(map[int64]*models.Tweet)}
}

func (m *mockTweetRepo) Upsert(_ context.Context, tweet *models.Tweet) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *tweet
	m.tweets[tweet.ID] = &copied
	return nil
}

func (m *mockTweetRepo) ListByAccount(_ context.Context, accountID int64) ([]*models.Tweet, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*models.Tweet
	for _, t := range m.tweets {
		if t.AccountID == accountID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTweetRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tweets), nil
}

// mockFollowRepo implements repositories.FollowRepository for testing.
type mockFollowRepo struct {
	mu      sync.Mutex
	follows []*models.Follow
}

func (m *mockFollowRepo) Create(_ context.Context, followerID, followingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return nil
		}
	}
	m.follows = append(m.follows, &models.Follow{FollowerID: followerID, FollowingID: followingID})
	return nil
}

func (m *mockFollowRepo) ListFollowingIDs(_ context.Context, followerID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for _, f := range m.follows {
		if f.FollowerID == followerID {
			ids = append(ids, f.FollowingID)
		}
	}
	return ids, nil
}

func (m *mockFollowRepo) ListFollowerIDs(_ context.Context, followingID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for _, f := range m.follows {
		if f.FollowingID == followingID {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}

func (m *mockFollowRepo) ListAll(_ context.Context) ([]*models.Follow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Follow(nil), m.follows...), nil
}

func (m *mockFollowRepo) ListAmong(_ context.Context, accountIDs []int64) ([]*models.Follow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := make(map[int64]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		in[id] = struct{}{}
	}
	var result []*models.Follow
	for _, f := range m.follows {
		if _, ok := in[f.FollowerID]; !ok {
			continue
		}
		if _, ok := in[f.FollowingID]; !ok {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

func (m *mockFollowRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.follows), nil
}

// mockCampRepo implements repositories.CampRepository for testing.
type mockCampRepo struct {
	camps  []*models.Camp
	nextID int64
}

func (m *mockCampRepo) Create(_ context.Context, camp *models.Camp) error {
	for _, c := range m.camps {
		if c.Slug == camp.Slug {
			return apperrors.ErrConflict
		}
	}
	m.nextID++
	camp.ID = m.nextID
	m.camps = append(m.camps, camp)
	return nil
}

func (m *mockCampRepo) GetByID(_ context.Context, id int64) (*models.Camp, error) {
	for _, c := range m.camps {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCampRepo) GetBySlug(_ context.Context, slug string) (*models.Camp, error) {
	for _, c := range m.camps {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCampRepo) List(_ context.Context) ([]*models.Camp, error) {
	return m.camps, nil
}

// mockKeywordRepo implements repositories.KeywordRepository for testing.
type mockKeywordRepo struct {
	keywords []*models.Keyword
	nextID   int64
}

func (m *mockKeywordRepo) Create(_ context.Context, keyword *models.Keyword) error {
	for _, k := range m.keywords {
		if k.Term == keyword.Term && k.Type == keyword.Type {
			return apperrors.ErrConflict
		}
	}
	m.nextID++
	keyword.ID = m.nextID
	m.keywords = append(m.keywords, keyword)
	return nil
}

func (m *mockKeywordRepo) GetByID(_ context.Context, id int64) (*models.Keyword, error) {
	for _, k := range m.keywords {
		if k.ID == id {
			return k, nil
		}
	}
	return nil, nil
}

func (m *mockKeywordRepo) GetByTermAndType(_ context.Context, term, keywordType string) (*models.Keyword, error) {
	for _, k := range m.keywords {
		if k.Term == term && k.Type == keywordType {
			return k, nil
		}
	}
	return nil, nil
}

func (m *mockKeywordRepo) List(_ context.Context) ([]*models.Keyword, error) {
	return m.keywords, nil
}

func (m *mockKeywordRepo) ListByCamp(_ context.Context, campID int64) ([]*models.Keyword, error) {
	var result []*models.Keyword
	for _, k := range m.keywords {
		if k.CampID != nil && *k.CampID == campID {
			result = append(result, k)
		}
	}
	return result, nil
}

func (m *mockKeywordRepo) Delete(_ context.Context, id int64) error {
	for i, k := range m.keywords {
		if k.ID == id {
			m.keywords = append(m.keywords[:i], m.keywords[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockKeywordRepo) Count(_ context.Context) (int, error) {
	return len(m.keywords), nil
}

// mockScoreRepo implements repositories.ScoreRepository for testing.
type mockScoreRepo struct {
	scores    map[[2]int64]*models.AccountCampScore
	upsertErr error
	upserts   int
}

func newMockScoreRepo() *mockScoreRepo {
	return &mockScoreRepo{scores: make(map[[2]int64]*models.AccountCampScore)}
}

func (m *mockScoreRepo) Upsert(_ context.Context, score *models.AccountCampScore) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	copied := *score
	m.scores[[2]int64{score.AccountID, score.CampID}] = &copied
	return nil
}

func (m *mockScoreRepo) Get(_ context.Context, accountID, campID int64) (*models.AccountCampScore, error) {
	return m.scores[[2]int64{accountID, campID}], nil
}

func (m *mockScoreRepo) ListByAccount(_ context.Context, accountID int64) ([]*models.AccountCampScore, error) {
	var result []*models.AccountCampScore
	for _, s := range m.scores {
		if s.AccountID == accountID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockScoreRepo) Leaderboard(_ context.Context, campID int64, limit int) ([]*models.LeaderboardEntry, error) {
	var result []*models.LeaderboardEntry
	for _, s := range m.scores {
		if s.CampID != campID || s.Score <= 0 {
			continue
		}
		result = append(result, &models.LeaderboardEntry{
			AccountID:  s.AccountID,
			Score:      s.Score,
			BioScore:   s.BioScore,
			TweetScore: s.TweetScore,
			AnalyzedAt: s.AnalyzedAt,
		})
		if len(result) == limit {
			break
		}
	}
	return result, nil
}
