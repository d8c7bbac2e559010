package handlers_test

import (
	"context"
	"net/http"
	"time"

	"devconnector-backend/internal/middleware"
	"devconnector-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// withChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser injects an authenticated user id the way the JWT middleware does.
func asUser(r *http.Request, id bson.ObjectID) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), id.Hex()))
}

// fakeProfileStore keeps profiles in memory, mirroring the repository's
// contract: (nil, nil) for no-document, sparse updates applied field by
// field, newest-first list mutations.
type fakeProfileStore struct {
	profiles map[bson.ObjectID]*models.Profile
	err      error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[bson.ObjectID]*models.Profile{}}
}

func (s *fakeProfileStore) FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) FindAll(ctx context.Context) ([]models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Profile
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProfileStore) Upsert(ctx context.Context, userID bson.ObjectID, update models.ProfileUpdate) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[userID]
	if !ok {
		p = &models.Profile{
			ID:   bson.NewObjectID(),
			User: userID,
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		s.profiles[userID] = p
	}
	for path, value := range update.Fields {
		switch path {
		case "status":
			p.Status = value.(string)
		case "skills":
			p.Skills = value.([]string)
		case "company":
			p.Company = value.(string)
		case "website":
			p.Website = value.(string)
		case "location":
			p.Location = value.(string)
		case "bio":
			p.Bio = value.(string)
		case "githubusername":
			p.GithubUsername = value.(string)
		case "social.youtube":
			p.Social.Youtube = value.(string)
		case "social.twitter":
			p.Social.Twitter = value.(string)
		case "social.instagram":
			p.Social.Instagram = value.(string)
		case "social.linkedin":
			p.Social.Linkedin = value.(string)
		case "social.facebook":
			p.Social.Facebook = value.(string)
		}
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	if s.err != nil {
		return s.err
	}
	delete(s.profiles, userID)
	return nil
}

func (s *fakeProfileStore) AddExperience(ctx context.Context, userID bson.ObjectID, exp models.Experience) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	p.Experience = append([]models.Experience{exp}, p.Experience...)
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) RemoveExperience(ctx context.Context, userID bson.ObjectID, expID string) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	for i, e := range p.Experience {
		if e.ID == expID {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeProfileStore) AddEducation(ctx context.Context, userID bson.ObjectID, edu models.Education) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	p.Education = append([]models.Education{edu}, p.Education...)
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) RemoveEducation(ctx context.Context, userID bson.ObjectID, eduID string) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	for i, e := range p.Education {
		if e.ID == eduID {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

// fakeUserStore keeps user accounts in memory.
type fakeUserStore struct {
	users map[bson.ObjectID]*models.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[bson.ObjectID]*models.User{}}
}

func (s *fakeUserStore) add(user models.User) bson.ObjectID {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	s.users[user.ID] = &user
	return user.ID
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	user.ID = bson.NewObjectID()
	user.Date = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id bson.ObjectID) error {
	if s.err != nil {
		return s.err
	}
	delete(s.users, id)
	return nil
}
