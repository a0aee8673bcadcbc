package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"adboard/internal/config"
	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/middleware"
	"adboard/internal/models"
	"adboard/internal/repository"
)

type AuthHandler struct {
	users interfaces.UserRepository
	cfg   *config.Config
	log   logger.Logger
	v     *validator.Validate
	now   func() time.Time
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		users: repository.NewUserRepository(db),
		cfg:   cfg,
		log:   log,
		v:     validator.New(),
		now:   time.Now,
	}
}

// Login godoc
// @Tags Admin Auth
// @Summary Admin login
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/admin/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.log.Error("login lookup failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "login_failed", "Failed to login")
			return
		}
		writeJSONErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	ttl := h.cfg.JWT.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	signed, err := middleware.IssueToken(h.cfg.JWT.Secret, u.ID, u.Email, u.Role, ttl, h.now().UTC())
	if err != nil {
		h.log.Error("sign token failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "login_failed", "Failed to login")
		return
	}

	h.log.Info("admin login", logger.String("user_id", u.ID))
	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(ttl.Seconds()),
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
	})
}

// Me godoc
// @Tags Admin Auth
// @Summary Current admin account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/admin/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusUnauthorized, "invalid_token", "Account no longer exists")
			return
		}
		h.log.Error("load current user failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_user_failed", "Failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
