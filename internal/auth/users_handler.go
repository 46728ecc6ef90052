package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gmcandra/mebel-api/internal/httputil"
	"github.com/gmcandra/mebel-api/internal/logging"
	"github.com/gmcandra/mebel-api/internal/user"
)

// UsersHandler contains the admin user-management endpoints and the
// authenticated push-token registration endpoint.
type UsersHandler struct {
	repo    *user.Repository
	service *Service
	logger  *logging.Logger
}

func NewUsersHandler(repo *user.Repository, service *Service, logger *logging.Logger) *UsersHandler {
	return &UsersHandler{repo: repo, service: service, logger: logger}
}

// CreateUserRequest is the admin user-creation request body
type CreateUserRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

// UpdateUserRequest is the admin partial-update request body
type UpdateUserRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Password *string    `json:"password"`
	Role     *user.Role `json:"role"`
}

// PushTokenRequest registers the caller's push-notification token
type PushTokenRequest struct {
	Token string `json:"token"`
}

// List returns all users (admin only)
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Response
// @Router       /users [get]
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	users, err := h.repo.List(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = toUserResponse(&users[i])
	}

	httputil.RespondJSON(w, http.StatusOK, "Users successfully fetched", responses)
}

// Get returns a single user (admin only)
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} httputil.Response
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [get]
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	found, err := h.repo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "User successfully fetched", toUserResponse(found))
}

// Create creates a user with an explicit role (admin only)
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateUserRequest true "User details"
// @Success      201 {object} httputil.Response
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Router       /users [post]
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if !req.Role.Valid() {
		httputil.RespondErrorWithCode(w, "invalid role, must be ADMIN or USER", httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateUser(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			httputil.RespondErrorWithCode(w, "email already in use", httputil.CodeEmailAlreadyExists, http.StatusConflict)
			return
		}
		if isValidationError(err) {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidation, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user created by admin", "user_id", created.ID, "role", created.Role)

	httputil.RespondJSON(w, http.StatusCreated, "User successfully created", toUserResponse(created))
}

// Update partially updates a user (admin only)
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200 {object} httputil.Response
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [patch]
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.Role != nil && !req.Role.Valid() {
		httputil.RespondErrorWithCode(w, "invalid role, must be ADMIN or USER", httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	params := user.UpdateParams{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	// Passwords are never stored verbatim
	if req.Password != nil {
		hash, err := h.service.HashPassword(*req.Password)
		if err != nil {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidation, http.StatusBadRequest)
			return
		}
		params.PasswordHash = &hash
	}

	updated, err := h.repo.Update(r.Context(), userID, params)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, user.ErrDuplicateEmail) {
			httputil.RespondErrorWithCode(w, "email already in use", httputil.CodeEmailAlreadyExists, http.StatusConflict)
			return
		}
		logger.Error("failed to update user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "User successfully updated", toUserResponse(updated))
}

// Delete removes a user (admin only)
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} httputil.Response
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [delete]
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "User successfully deleted", nil)
}

// RegisterPushToken stores the caller's push-notification token
// @Summary      Register push token
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PushTokenRequest true "FCM token"
// @Success      200 {object} httputil.Response
// @Router       /users/me/push-token [put]
func (h *UsersHandler) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	callerID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httputil.RespondErrorWithCode(w, "push token required", httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	if err := h.repo.SetFCMToken(r.Context(), callerID, req.Token); err != nil {
		logger.Error("failed to store push token", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to store push token", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Push token registered", nil)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user ID", httputil.CodeValidation, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return userID, true
}
