package handlers

import (
	"context"

	"github.com/openccp/openccp-engine/pkg/apperrors"
	"github.com/openccp/openccp-engine/pkg/models"
)

// In-memory repository fakes. Handler tests wire real services over these
// so requests exercise the full path below the router.

type fakeAccounts struct {
	accounts map[int64]*models.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: make(map[int64]*models.Account)}
}

func (f *fakeAccounts) Upsert(_ context.Context, account *models.Account) error {
	if existing, ok := f.accounts[account.ID]; ok && existing.IsSeed {
		account.IsSeed = true
	}
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*models.Account, error) {
	return f.accounts[id], nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) List(_ context.Context, seedsOnly bool) ([]*models.Account, error) {
	var result []*models.Account
	for _, a := range f.accounts {
		if seedsOnly && !a.IsSeed {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAccounts) ListByIDs(_ context.Context, ids []int64) ([]*models.Account, error) {
	var result []*models.Account
	for _, id := range ids {
		if a, ok := f.accounts[id]; ok {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAccounts) Count(_ context.Context) (int, error) {
	return len(f.accounts), nil
}

func (f *fakeAccounts) CountSeeds(_ context.Context) (int, error) {
	n := 0
	for _, a := range f.accounts {
		if a.IsSeed {
			n++
		}
	}
	return n, nil
}

type fakeTweets struct {
	tweets map[int64]*models.Tweet
}

func newFakeTweets() *fakeTweets {
	return &fakeTweets{tweets: make(map[int64]*models.Tweet)}
}

func (f *fakeTweets) Upsert(_ context.Context, tweet *models.Tweet) error {
	copied := *tweet
	f.tweets[tweet.ID] = &copied
	return nil
}

func (f *fakeTweets) ListByAccount(_ context.Context, accountID int64) ([]*models.Tweet, error) {
	var result []*models.Tweet
	for _, t := range f.tweets {
		if t.AccountID == accountID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (f *fakeTweets) Count(_ context.Context) (int, error) {
	return len(f.tweets), nil
}

type fakeFollows struct {
	follows []*models.Follow
}

func (f *fakeFollows) Create(_ context.Context, followerID, followingID int64) error {
	for _, edge := range f.follows {
		if edge.FollowerID == followerID && edge.FollowingID == followingID {
			return nil
		}
	}
	f.follows = append(f.follows, &models.Follow{FollowerID: followerID, FollowingID: followingID})
	return nil
}

func (f *fakeFollows) ListFollowingIDs(_ context.Context, followerID int64) ([]int64, error) {
	var ids []int64
	for _, edge := range f.follows {
		if edge.FollowerID == followerID {
			ids = append(ids, edge.FollowingID)
		}
	}
	return ids, nil
}

func (f *fakeFollows) ListFollowerIDs(_ context.Context, followingID int64) ([]int64, error) {
	var ids []int64
	for _, edge := range f.follows {
		if edge.FollowingID == followingID {
			ids = append(ids, edge.FollowerID)
		}
	}
	return ids, nil
}

func (f *fakeFollows) ListAll(_ context.Context) ([]*models.Follow, error) {
	return f.follows, nil
}

func (f *fakeFollows) ListAmong(_ context.Context, accountIDs []int64) ([]*models.Follow, error) {
	in := make(map[int64]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		in[id] = struct{}{}
	}
	var result []*models.Follow
	for _, edge := range f.follows {
		if _, ok := in[edge.FollowerID]; !ok {
			continue
		}
		if _, ok := in[edge.FollowingID]; !ok {
			continue
		}
		result = append(result, edge)
	}
	return result, nil
}

func (f *fakeFollows) Count(_ context.Context) (int, error) {
	return len(f.follows), nil
}

type fakeCamps struct {
	camps  []*models.Camp
	nextID int64
}

func (f *fakeCamps) Create(_ context.Context, camp *models.Camp) error {
	for _, c := range f.camps {
		if c.Slug == camp.Slug {
			return apperrors.ErrConflict
		}
	}
	f.nextID++
	camp.ID = f.nextID
	f.camps = append(f.camps, camp)
	return nil
}

func (f *fakeCamps) GetByID(_ context.Context, id int64) (*models.Camp, error) {
	for _, c := range f.camps {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCamps) GetBySlug(_ context.Context, slug string) (*models.Camp, error) {
	for _, c := range f.camps {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCamps) List(_ context.Context) ([]*models.Camp, error) {
	return f.camps, nil
}

type fakeKeywords struct {
	keywords []*models.Keyword
	nextID   int64
}

func (f *fakeKeywords) Create(_ context.Context, keyword *models.Keyword) error {
	for _, k := range f.keywords {
		if k.Term == keyword.Term && k.Type == keyword.Type {
			return apperrors.ErrConflict
		}
	}
	f.nextID++
	keyword.ID = f.nextID
	f.keywords = append(f.keywords, keyword)
	return nil
}

func (f *fakeKeywords) GetByID(_ context.Context, id int64) (*models.Keyword, error) {
	for _, k := range f.keywords {
		if k.ID == id {
			return k, nil
		}
	}
	return nil, nil
}

func (f *fakeKeywords) GetByTermAndType(_ context.Context, term, keywordType string) (*models.Keyword, error) {
	for _, k := range f.keywords {
		if k.Term == term && k.Type == keywordType {
			return k, nil
		}
	}
	return nil, nil
}

func (f *fakeKeywords) List(_ context.Context) ([]*models.Keyword, error) {
	return f.keywords, nil
}

func (f *fakeKeywords) ListByCamp(_ context.Context, campID int64) ([]*models.Keyword, error) {
	var result []*models.Keyword
	for _, k := range f.keywords {
		if k.CampID != nil && *k.CampID == campID {
			result = append(result, k)
		}
	}
	return result, nil
}

func (f *fakeKeywords) Delete(_ context.Context, id int64) error {
	for i, k := range f.keywords {
		if k.ID == id {
			f.keywords = append(f.keywords[:i], f.keywords[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeKeywords) Count(_ context.Context) (int, error) {
	return len(f.keywords), nil
}

type fakeScores struct {
	scores map[[2]int64]*models.AccountCampScore
}

func newFakeScores() *fakeScores {
	return &fakeScores{scores: make(map[[2]int64]*models.AccountCampScore)}
}

func (f *fakeScores) Upsert(_ context.Context, score *models.AccountCampScore) error {
	copied := *score
	f.scores[[2]int64{score.AccountID, score.CampID}] = &copied
	return nil
}

func (f *fakeScores) Get(_ context.Context, accountID, campID int64) (*models.AccountCampScore, error) {
	return f.scores[[2]int64{accountID, campID}], nil
}

func (f *fakeScores) ListByAccount(_ context.Context, accountID int64) ([]*models.AccountCampScore, error) {
	var result []*models.AccountCampScore
	for _, s := range f.scores {
		if s.AccountID == accountID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeScores) Leaderboard(_ context.Context, campID int64, limit int) ([]*models.LeaderboardEntry, error) {
	var result []*models.LeaderboardEntry
	for _, s := range f.scores {
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

// fakeClient serves canned upstream data for crawl tests.
type fakeClient struct {
	users  map[string]*models.Account
	tweets map[int64][]*models.Tweet
}

func (f *fakeClient) UserByUsername(_ context.Context, username string) *models.Account {
	return f.users[username]
}

func (f *fakeClient) UserByID(_ context.Context, id int64) *models.Account {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeClient) UserTweets(_ context.Context, userID int64, maxResults int) []*models.Tweet {
	tweets := f.tweets[userID]
	if len(tweets) > maxResults {
		tweets = tweets[:maxResults]
	}
	return tweets
}

func (f *fakeClient) Following(_ context.Context, userID int64, maxResults int) []*models.Account {
	return nil
}

func (f *fakeClient) Followers(_ context.Context, userID int64, maxResults int) []*models.Account {
	return nil
}
