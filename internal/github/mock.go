package github

import "context"

// MockClient implements the Client interface with canned responses.
// Replace this with the real client wired in main for production use.
type MockClient struct {
	Repos []Repo
	Err   error
}

func NewMockClient(repos []Repo, err error) *MockClient {
	return &MockClient{Repos: repos, Err: err}
}

func (m *MockClient) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Repos, nil
}
