package xapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openccp/openccp-engine/pkg/apperrors"
)

func TestNewHTTPTransport_RequiresBearerToken(t *testing.T) {
	_, err := NewHTTPTransport("", "")
	require.ErrorIs(t, err, apperrors.ErrMissingBearerToken)
}

func TestHTTPTransport_UserByUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/by/username/alice", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("user.fields"), "public_metrics")

		fmt.Fprint(w, `{"data":{"id":"123","username":"alice","public_metrics":{"followers_count":10}}}`)
	}))
	defer server.Close()

	transport, err := NewHTTPTransport(server.URL, "test-token")
	require.NoError(t, err)

	user, err := transport.UserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "123", user.ID)
	assert.Equal(t, 10, user.PublicMetrics.FollowersCount)
}

func TestHTTPTransport_RateLimitBecomesTypedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"title":"Too Many Requests","detail":"Rate limit exceeded"}`)
	}))
	defer server.Close()

	transport, err := NewHTTPTransport(server.URL, "test-token")
	require.NoError(t, err)

	_, err = transport.UserByID(context.Background(), 123)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, IsRateLimit(err))
}

func TestHTTPTransport_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errors":[{"title":"Not Found Error","detail":"Could not find user"}]}`)
	}))
	defer server.Close()

	transport, err := NewHTTPTransport(server.URL, "test-token")
	require.NoError(t, err)

	_, err = transport.UserByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRateLimit(err))
}

func TestHTTPPager_FollowsPaginationTokens(t *testing.T) {
	var tokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("pagination_token")
		tokens = append(tokens, token)

		switch token {
		case "":
			fmt.Fprint(w, `{"data":[{"id":"1","username":"a"}],"meta":{"result_count":1,"next_token":"page2"}}`)
		case "page2":
			fmt.Fprint(w, `{"data":[{"id":"2","username":"b"}],"meta":{"result_count":1}}`)
		default:
			t.Errorf("unexpected pagination token %q", token)
		}
	}))
	defer server.Close()

	transport, err := NewHTTPTransport(server.URL, "test-token")
	require.NoError(t, err)

	pager := transport.Following(123, 100)

	page1, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, page1, 1)
	assert.Equal(t, "a", page1[0].Username)

	page2, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "b", page2[0].Username)

	_, err = pager.Next(context.Background())
	require.ErrorIs(t, err, ErrNoMorePages)

	// Third request never leaves the pager: the absent next_token ends it.
	assert.Equal(t, []string{"", "page2"}, tokens)
}

func TestHTTPPager_EmptyFirstPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meta":{"result_count":0}}`)
	}))
	defer server.Close()

	transport, err := NewHTTPTransport(server.URL, "test-token")
	require.NoError(t, err)

	pager := transport.UserTweets(123, 100)
	_, err = pager.Next(context.Background())
	require.ErrorIs(t, err, ErrNoMorePages)
}
