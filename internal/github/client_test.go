package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"devconnector-backend/internal/github"
)

func TestListRepos_Success(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"name":"first","html_url":"https://github.com/alice/first","stargazers_count":3,"created_at":"2020-01-01T00:00:00Z"},
			{"id":2,"name":"second","created_at":"2021-01-01T00:00:00Z"}
		]`))
	}))
	defer server.Close()

	client := github.NewClientWithBaseURL(server.URL, "secret-token")
	repos, err := client.ListRepos(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListRepos: %v", err)
	}

	if gotPath != "/users/alice/repos" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "per_page=5&sort=created&direction=asc" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization header = %q, token must not travel in the URL", gotAuth)
	}
	if len(repos) != 2 || repos[0].Name != "first" || repos[0].Stars != 3 {
		t.Errorf("repos = %+v", repos)
	}
}

func TestListRepos_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := github.NewClientWithBaseURL(server.URL, "")
	_, err := client.ListRepos(context.Background(), "ghost")
	if !errors.Is(err, github.ErrNoProfile) {
		t.Fatalf("err = %v, want ErrNoProfile", err)
	}
}

func TestListRepos_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := github.NewClientWithBaseURL(server.URL, "")
	_, err := client.ListRepos(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, github.ErrNoProfile) {
		t.Fatal("transport faults must not read as a missing profile")
	}
}

func TestListRepos_NoTokenNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := github.NewClientWithBaseURL(server.URL, "")
	if _, err := client.ListRepos(context.Background(), "alice"); err != nil {
		t.Fatalf("ListRepos: %v", err)
	}
}
