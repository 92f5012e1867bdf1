package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openccp/openccp-engine/pkg/apperrors"
)

const defaultBaseURL = "https://api.twitter.com/2"

// HTTPTransport implements Transport against the real X API v2 using
// app-only bearer authentication.
type HTTPTransport struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
}

// NewHTTPTransport creates the X API transport. A missing bearer token is a
// fatal configuration error surfaced here, at construction, not at call time.
func NewHTTPTransport(baseURL, bearerToken string) (*HTTPTransport, error) {
	if bearerToken == "" {
		return nil, apperrors.ErrMissingBearerToken
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPTransport{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

var _ Transport = (*HTTPTransport)(nil)

// apiErrorDetail is one entry of an X API error envelope.
type apiErrorDetail struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

type errorEnvelope struct {
	Title  string           `json:"title"`
	Detail string           `json:"detail"`
	Errors []apiErrorDetail `json:"errors"`
}

// pageMeta is the pagination metadata of a listing response.
type pageMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

func (t *HTTPTransport) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.bearerToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return t.statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError converts a non-200 response into a typed APIError.
func (t *HTTPTransport) statusError(status int, body []byte) error {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Title != "":
			apiErr.Code = envelope.Title
			apiErr.Message = envelope.Detail
		case len(envelope.Errors) > 0:
			apiErr.Code = envelope.Errors[0].Title
			apiErr.Message = envelope.Errors[0].Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

type userEnvelope struct {
	Data *RawUser `json:"data"`
}

type tweetsEnvelope struct {
	Data []RawTweet `json:"data"`
}

// UserByUsername implements Transport.
func (t *HTTPTransport) UserByUsername(ctx context.Context, username string) (*RawUser, error) {
	q := url.Values{"user.fields": {strings.Join(UserFields, ",")}}
	var envelope userEnvelope
	if err := t.get(ctx, "/users/by/username/"+url.PathEscape(username), q, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// UserByID implements Transport.
func (t *HTTPTransport) UserByID(ctx context.Context, id int64) (*RawUser, error) {
	q := url.Values{"user.fields": {strings.Join(UserFields, ",")}}
	var envelope userEnvelope
	if err := t.get(ctx, "/users/"+strconv.FormatInt(id, 10), q, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// TweetsByIDs implements Transport.
func (t *HTTPTransport) TweetsByIDs(ctx context.Context, ids []int64) ([]RawTweet, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.FormatInt(id, 10)
	}

	q := url.Values{
		"ids":          {strings.Join(strIDs, ",")},
		"tweet.fields": {strings.Join(TweetFields, ",")},
	}
	var envelope tweetsEnvelope
	if err := t.get(ctx, "/tweets", q, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// UserTweets implements Transport.
func (t *HTTPTransport) UserTweets(id int64, perPage int) Pager[RawTweet] {
	return &httpPager[RawTweet]{
		transport: t,
		path:      fmt.Sprintf("/users/%d/tweets", id),
		query: url.Values{
			"max_results":  {strconv.Itoa(perPage)},
			"tweet.fields": {strings.Join(TweetFields, ",")},
		},
	}
}

// Following implements Transport.
func (t *HTTPTransport) Following(id int64, perPage int) Pager[RawUser] {
	return &httpPager[RawUser]{
		transport: t,
		path:      fmt.Sprintf("/users/%d/following", id),
		query: url.Values{
			"max_results": {strconv.Itoa(perPage)},
			"user.fields": {strings.Join(UserFields, ",")},
		},
	}
}

// Followers implements Transport.
func (t *HTTPTransport) Followers(id int64, perPage int) Pager[RawUser] {
	return &httpPager[RawUser]{
		transport: t,
		path:      fmt.Sprintf("/users/%d/followers", id),
		query: url.Values{
			"max_results": {strconv.Itoa(perPage)},
			"user.fields": {strings.Join(UserFields, ",")},
		},
	}
}

// httpPager walks a cursor-paginated listing endpoint via pagination_token.
type httpPager[T any] struct {
	transport *HTTPTransport
	path      string
	query     url.Values

	nextToken string
	started   bool
	done      bool
}

type pageEnvelope[T any] struct {
	Data []T      `json:"data"`
	Meta pageMeta `json:"meta"`
}

// Next implements Pager.
func (p *httpPager[T]) Next(ctx context.Context) ([]T, error) {
	if p.done {
		return nil, ErrNoMorePages
	}
	if p.started && p.nextToken == "" {
		p.done = true
		return nil, ErrNoMorePages
	}

	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	if p.nextToken != "" {
		q.Set("pagination_token", p.nextToken)
	}

	var envelope pageEnvelope[T]
	if err := p.transport.get(ctx, p.path, q, &envelope); err != nil {
		return nil, err
	}

	p.started = true
	p.nextToken = envelope.Meta.NextToken

	// An empty data array ends the stream; protected or empty accounts
	// respond this way rather than with an error.
	if len(envelope.Data) == 0 {
		p.done = true
		return nil, ErrNoMorePages
	}
	return envelope.Data, nil
}
