package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"devconnector-backend/internal/gravatar"
	"devconnector-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/resend/resend-go/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence seam for user accounts; satisfied by
// repository.UserRepo and by in-memory fakes in tests.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type AuthHandler struct {
	users     UserStore
	jwtSecret string
}

func NewAuthHandler(users UserStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// --- POST /users ---

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if req.Name == "" {
		errs = append(errs, fieldError{Msg: "Name is required", Param: "name"})
	}
	if !strings.Contains(req.Email, "@") {
		errs = append(errs, fieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, fieldError{Msg: "Please enter a password with 6 or more characters", Param: "password"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	existing, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error checking existing user: %v", err)
		serverError(w)
		return
	}
	if existing != nil {
		writeValidationErrors(w, []fieldError{{Msg: "User already exists", Param: "email"}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		serverError(w)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Avatar:   gravatar.URL(req.Email),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		log.Printf("Error creating user: %v", err)
		serverError(w)
		return
	}

	// Welcome email is best-effort and must not block registration.
	go func() {
		if err := sendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Printf("Error sending welcome email: %v", err)
		}
	}()

	token, err := h.signToken(user.ID)
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		serverError(w)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// --- POST /auth ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if !strings.Contains(req.Email, "@") {
		errs = append(errs, fieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Msg: "Password is required", Param: "password"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		serverError(w)
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		writeValidationErrors(w, []fieldError{{Msg: "Invalid credentials"}})
		return
	}

	token, err := h.signToken(user.ID)
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		serverError(w)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// --- GET /auth ---

func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		serverError(w)
		return
	}
	if user == nil {
		writeMsg(w, http.StatusBadRequest, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// --- Helpers ---

func (h *AuthHandler) signToken(userID bson.ObjectID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.Hex(),
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

func sendWelcomeEmail(to, name string) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	fromEmail := os.Getenv("FROM_EMAIL")

	if apiKey == "" {
		log.Printf("⚠️  RESEND_API_KEY not set, skipping welcome email for %s", to)
		return nil
	}

	client := resend.NewClient(apiKey)

	params := &resend.SendEmailRequest{
		From:    fromEmail,
		To:      []string{to},
		Subject: "Welcome to DevConnector",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Welcome, %s!</h2>
				<p>Your account is ready. Head to your dashboard to set up your
				developer profile and start connecting.</p>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					If you didn't create this account, you can safely ignore this email.
				</p>
			</div>
		`, name),
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Welcome email sent to %s (ID: %s)", to, sent.Id)
	return nil
}
