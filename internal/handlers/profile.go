package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"devconnector-backend/internal/middleware"
	"devconnector-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProfileStore is the persistence seam for the profile aggregate; satisfied
// by repository.ProfileRepo and by in-memory fakes in tests.
type ProfileStore interface {
	FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Profile, error)
	FindAll(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, userID bson.ObjectID, update models.ProfileUpdate) (*models.Profile, error)
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
	AddExperience(ctx context.Context, userID bson.ObjectID, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID bson.ObjectID, expID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID bson.ObjectID, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID bson.ObjectID, eduID string) (*models.Profile, error)
}

type ProfileHandler struct {
	profiles ProfileStore
	users    UserStore
}

func NewProfileHandler(profiles ProfileStore, users UserStore) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		users:    users,
	}
}

// --- Response types ---

// userRef is the public projection of the owning user: id, name and avatar
// only, never email or other private fields.
type userRef struct {
	ID     string `json:"_id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type profileResponse struct {
	models.Profile
	User userRef `json:"user"`
}

// --- GET /profile/me ---

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching profile: %v", err)
		serverError(w)
		return
	}
	if profile == nil {
		writeMsg(w, http.StatusBadRequest, "There is no profile for this user")
		return
	}

	writeJSON(w, http.StatusOK, h.withUser(r.Context(), profile))
}

// --- POST /profile ---

type upsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Instagram      string `json:"instagram"`
	Linkedin       string `json:"linkedin"`
	Facebook       string `json:"facebook"`
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if req.Status == "" {
		errs = append(errs, fieldError{Msg: "Status is required", Param: "status"})
	}
	if req.Skills == "" {
		errs = append(errs, fieldError{Msg: "Skill is required", Param: "skills"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	// Sparse update: only supplied fields overwrite stored values.
	update := models.NewProfileUpdate()
	update.Set("status", req.Status)
	update.Set("skills", splitSkills(req.Skills))
	setIfPresent(update, "company", req.Company)
	setIfPresent(update, "website", req.Website)
	setIfPresent(update, "location", req.Location)
	setIfPresent(update, "bio", req.Bio)
	setIfPresent(update, "githubusername", req.GithubUsername)
	setIfPresent(update, "social.youtube", req.Youtube)
	setIfPresent(update, "social.twitter", req.Twitter)
	setIfPresent(update, "social.instagram", req.Instagram)
	setIfPresent(update, "social.linkedin", req.Linkedin)
	setIfPresent(update, "social.facebook", req.Facebook)

	profile, err := h.profiles.Upsert(r.Context(), userID, update)
	if err != nil {
		log.Printf("Error upserting profile: %v", err)
		serverError(w)
		return
	}

	writeJSON(w, http.StatusOK, h.withUser(r.Context(), profile))
}

// --- GET /profile ---

func (h *ProfileHandler) All(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.FindAll(r.Context())
	if err != nil {
		log.Printf("Error listing profiles: %v", err)
		serverError(w)
		return
	}

	ownerIDs := make([]bson.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ownerIDs = append(ownerIDs, p.User)
	}
	owners, err := h.users.FindByIDs(r.Context(), ownerIDs)
	if err != nil {
		log.Printf("Error loading profile owners: %v", err)
		serverError(w)
		return
	}
	ownersByID := make(map[bson.ObjectID]models.User, len(owners))
	for _, u := range owners {
		ownersByID[u.ID] = u
	}

	responses := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp := profileResponse{Profile: p, User: userRef{ID: p.User.Hex()}}
		if owner, found := ownersByID[p.User]; found {
			resp.User.Name = owner.Name
			resp.User.Avatar = owner.Avatar
		}
		responses = append(responses, resp)
	}

	writeJSON(w, http.StatusOK, responses)
}

// --- GET /profile/user/{user_id} ---

func (h *ProfileHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	// A malformed id means the profile cannot exist, so it is reported the
	// same way as an unknown one rather than as a server fault.
	ownerID, err := bson.ObjectIDFromHex(chi.URLParam(r, "user_id"))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Profile not found")
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), ownerID)
	if err != nil {
		log.Printf("Error fetching profile: %v", err)
		serverError(w)
		return
	}
	if profile == nil {
		writeMsg(w, http.StatusBadRequest, "Profile not found")
		return
	}

	writeJSON(w, http.StatusOK, h.withUser(r.Context(), profile))
}

// --- DELETE /profile ---

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	// Best-effort cleanup: removing a profile that never existed succeeds,
	// and the owning user record is removed in cascade.
	if err := h.profiles.DeleteByUser(r.Context(), userID); err != nil {
		log.Printf("Error deleting profile: %v", err)
		serverError(w)
		return
	}
	if err := h.users.Delete(r.Context(), userID); err != nil {
		log.Printf("Error deleting user: %v", err)
		serverError(w)
		return
	}

	writeMsg(w, http.StatusOK, "User deleted")
}

// --- PUT /profile/experience ---

type addExperienceRequest struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        *time.Time `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req addExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if req.Title == "" {
		errs = append(errs, fieldError{Msg: "Title is required", Param: "title"})
	}
	if req.Company == "" {
		errs = append(errs, fieldError{Msg: "Company is required", Param: "company"})
	}
	if req.From == nil {
		errs = append(errs, fieldError{Msg: "From date is required", Param: "from"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	exp := models.Experience{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        *req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}

	profile, err := h.profiles.AddExperience(r.Context(), userID, exp)
	if err != nil {
		log.Printf("Error adding experience: %v", err)
		serverError(w)
		return
	}
	if profile == nil {
		writeMsg(w, http.StatusBadRequest, "There is no profile for this user")
		return
	}

	writeJSON(w, http.StatusOK, h.withUser(r.Context(), profile))
}

// --- DELETE /profile/experience/{exp_id} ---

func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	expID := chi.URLParam(r, "exp_id")
	profile, err := h.profiles.RemoveExperience(r.Context(), userID, expID)
	if err != nil {
		log.Printf("Error removing experience: %v", err)
		serverError(w)
		return
	}
	if profile == nil {
		writeMsg(w, http.StatusBadRequest, "Experience entry not found")
		return
	}

	writeJSON(w, http.StatusOK, h.withUser(r.Context(), profile))
}

// --- PUT /profile/education ---

type addEducationRequest struct {
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         *time.Time `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req addEducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if req.School == "" {
		errs = append(errs, fieldError{Msg: "School is required", Param: "school"})
	}
	if req.Degree == "" {
		errs = append(errs, fieldError{Msg: "Degree is required", Param: "degree"})
	}
	if req.From == nil {
		errs = append(errs, fieldError{Msg: "From date is required", Param: "from"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	edu := models.Education{
		ID:           uuid.New().String(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         *req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}

	profile, err := h.profiles.AddEducation(r.Context(), userID, edu)
	if err != nil {
		log.Printf("Error adding education: %v", err)
		serverError(w)
		return
	}
	if profile == nil {
		writeMsg(w, http.StatusBadRequest, "There is no profile for this user")
		return
	}

	writeJSON(w, http.StatusOK, h.withUser(r.Context(), profile))
}

// --- DELETE /profile/education/{edu_id} ---

func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	eduID := chi.URLParam(r, "edu_id")
	profile, err := h.profiles.RemoveEducation(r.Context(), userID, eduID)
	if err != nil {
		log.Printf("Error removing education: %v", err)
		serverError(w)
		return
	}
	if profile == nil {
		writeMsg(w, http.StatusBadRequest, "Education entry not found")
		return
	}

	writeJSON(w, http.StatusOK, h.withUser(r.Context(), profile))
}

// --- Helpers ---

// requireUserID pulls the authenticated id from the context and parses it.
// The middleware guarantees presence on protected routes; the checks guard
// against direct handler invocation.
func requireUserID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	userIDHex := middleware.GetUserID(r.Context())
	if userIDHex == "" {
		writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
		return bson.ObjectID{}, false
	}
	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeMsg(w, http.StatusUnauthorized, "token is not valid")
		return bson.ObjectID{}, false
	}
	return userID, true
}

// splitSkills turns the comma-delimited input into the stored ordered list,
// trimming surrounding whitespace from each element.
func splitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out
}

func setIfPresent(update models.ProfileUpdate, path, value string) {
	if value != "" {
		update.Set(path, value)
	}
}

// withUser attaches the owner's public fields to a profile response.
func (h *ProfileHandler) withUser(ctx context.Context, profile *models.Profile) profileResponse {
	resp := profileResponse{Profile: *profile, User: userRef{ID: profile.User.Hex()}}
	owner, err := h.users.FindByID(ctx, profile.User)
	if err != nil {
		log.Printf("Error loading profile owner: %v", err)
		return resp
	}
	if owner != nil {
		resp.User.Name = owner.Name
		resp.User.Avatar = owner.Avatar
	}
	return resp
}
