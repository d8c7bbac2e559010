package handlers

import (
	"errors"
	"log"
	"net/http"

	"devconnector-backend/internal/github"

	"github.com/go-chi/chi/v5"
)

type GithubHandler struct {
	client github.Client
}

func NewGithubHandler(client github.Client) *GithubHandler {
	return &GithubHandler{
		client: client,
	}
}

// --- GET /profile/github/{username} ---

func (h *GithubHandler) Repos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	repos, err := h.client.ListRepos(r.Context(), username)
	if err != nil {
		if errors.Is(err, github.ErrNoProfile) {
			writeMsg(w, http.StatusNotFound, "No Github profile found")
			return
		}
		log.Printf("Error fetching github repos for %s: %v", username, err)
		serverError(w)
		return
	}

	writeJSON(w, http.StatusOK, repos)
}
