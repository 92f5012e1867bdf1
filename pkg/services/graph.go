package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openccp/openccp-engine/pkg/apperrors"
	"github.com/openccp/openccp-engine/pkg/models"
	"github.com/openccp/openccp-engine/pkg/repositories"
)

// GraphService builds node-link views of the stored follow graph.
type GraphService interface {
	Graph(ctx context.Context) (*models.GraphData, error)
	AccountGraph(ctx context.Context, username string) (*models.GraphData, error)
}

var _ GraphService = (*graphService)(nil)

type graphService struct {
	accounts repositories.AccountRepository
	follows  repositories.FollowRepository
	logger   *zap.Logger
}

// NewGraphService creates the graph service with its repositories.
func NewGraphService(accounts repositories.AccountRepository, follows repositories.FollowRepository, logger *zap.Logger) GraphService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &graphService{accounts: accounts, follows: follows, logger: logger}
}

// Graph returns the full stored follow graph. Edges referencing accounts
// that were never stored are dropped rather than rendered dangling.
func (s *graphService) Graph(ctx context.Context) (*models.GraphData, error) {
	accounts, err := s.accounts.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	follows, err := s.follows.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}

	return buildGraph(accounts, follows), nil
}

// AccountGraph returns the neighborhood of one account: the account, every
// account it follows or is followed by, and all stored edges among that set.
func (s *graphService) AccountGraph(ctx context.Context, username string) (*models.GraphData, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account %q: %w", username, apperrors.ErrNotFound)
	}

	followingIDs, err := s.follows.ListFollowingIDs(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	followerIDs, err := s.follows.ListFollowerIDs(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}

	idSet := map[int64]struct{}{account.ID: {}}
	for _, id := range followingIDs {
		idSet[id] = struct{}{}
	}
	for _, id := range followerIDs {
		idSet[id] = struct{}{}
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	accounts, err := s.accounts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load neighborhood accounts: %w", err)
	}

	follows, err := s.follows.ListAmong(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load neighborhood edges: %w", err)
	}

	return buildGraph(accounts, follows), nil
}

func buildGraph(accounts []*models.Account, follows []*models.Follow) *models.GraphData {
	graph := &models.GraphData{
		Nodes: make([]models.GraphNode, 0, len(accounts)),
		Edges: make([]models.GraphEdge, 0, len(follows)),
	}

	known := make(map[int64]struct{}, len(accounts))
	for _, account := range accounts {
		known[account.ID] = struct{}{}

		name := ""
		if account.Name != nil {
			name = *account.Name
		}
		graph.Nodes = append(graph.Nodes, models.GraphNode{
			ID:        account.ID,
			Username:  account.Username,
			Name:      name,
			IsSeed:    account.IsSeed,
			Followers: account.FollowersCount,
		})
	}

	for _, follow := range follows {
		if _, ok := known[follow.FollowerID]; !ok {
			continue
		}
		if _, ok := known[follow.FollowingID]; !ok {
			continue
		}
		graph.Edges = append(graph.Edges, models.GraphEdge{
			Source: follow.FollowerID,
			Target: follow.FollowingID,
		})
	}

	return graph
}
