package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoProfile is returned when GitHub reports anything other than success
// for the username, which the API surfaces as "no Github profile found".
var ErrNoProfile = errors.New("github: no profile found")

// Repo is the subset of GitHub's repository object passed through to
// clients.
type Repo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description"`
	Stars       int       `json:"stargazers_count"`
	Watchers    int       `json:"watchers_count"`
	Forks       int       `json:"forks_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Client lists public repositories for a GitHub username. The abstraction
// allows swapping the HTTP client with a mock in handler tests.
type Client interface {
	ListRepos(ctx context.Context, username string) ([]Repo, error)
}

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient builds a GitHub client with a bounded request timeout. The
// optional access token raises the rate limit and is sent as an
// Authorization header, never in the URL.
func NewClient(token string) Client {
	return &httpClient{
		baseURL: "https://api.github.com",
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local
// server.
func NewClientWithBaseURL(baseURL, token string) Client {
	return &httpClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ListRepos returns up to the 5 most recently created repositories, sorted
// ascending by creation time.
func (c *httpClient) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=asc",
		c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnector-backend")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoProfile
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, err
	}
	return repos, nil
}
