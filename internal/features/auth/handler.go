package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/pkg/response"
	"github.com/verifact-app/backend/internal/pkg/token"
	"github.com/verifact-app/backend/internal/pkg/validator"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Handler struct {
	repo   *Repository
	config *config.Config
}

func NewHandler(repo *Repository, cfg *config.Config) *Handler {
	return &Handler{repo: repo, config: cfg}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if !validator.IsValidUsername(req.Username) {
		response.BadRequest(c, "Username must be 3-20 characters, letters, digits, _ or -", "INVALID_USERNAME")
		return
	}
	if !validator.IsValidEmail(req.Email) {
		response.BadRequest(c, "Invalid email address", "INVALID_EMAIL")
		return
	}
	if !validator.IsStrongPassword(req.Password) {
		response.BadRequest(c, "Password must be at least 8 characters with upper, lower and digit", "WEAK_PASSWORD")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to register user")
		return
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         RoleUser,
	}

	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "Username or email already taken", "DUPLICATE_USER")
			return
		}
		response.InternalServerError(c, "Failed to register user")
		return
	}

	accessToken, err := token.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.config.JWTSecret, h.config.JWTExpireHours)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	response.Created(c, AuthResponse{User: user, AccessToken: accessToken})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	user, err := h.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Same message for unknown email and wrong password
		response.Unauthorized(c, "Invalid credentials", "AUTH_FAILED")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		response.Unauthorized(c, "Invalid credentials", "AUTH_FAILED")
		return
	}

	accessToken, err := token.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.config.JWTSecret, h.config.JWTExpireHours)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token")
		return
	}

	response.Success(c, AuthResponse{User: user, AccessToken: accessToken})
}

// GetUser godoc
// @Summary Get a public user profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.SuccessResponse{data=PublicUser}
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "User not found", "USER_NOT_FOUND")
		return
	}

	response.Success(c, user.Public())
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.SuccessResponse{data=PublicUser}
// @Router /users/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	updates := bson.M{}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if req.AvatarURL != "" {
		if !validator.IsValidURL(req.AvatarURL) {
			response.BadRequest(c, "Invalid avatar URL", "INVALID_URL")
			return
		}
		updates["avatarUrl"] = req.AvatarURL
	}
	if len(updates) == 0 {
		response.BadRequest(c, "Nothing to update", "EMPTY_UPDATE")
		return
	}

	if err := h.repo.UpdateProfile(c.Request.Context(), userID, updates); err != nil {
		response.InternalServerError(c, "Failed to update profile")
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.InternalServerError(c, "Failed to load profile")
		return
	}

	response.Success(c, user.Public())
}

// ChangePassword godoc
// @Summary Change own password
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Password change payload"
// @Success 200 {object} response.SuccessResponse
// @Router /users/me/password [patch]
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if !validator.IsStrongPassword(req.NewPassword) {
		response.BadRequest(c, "Password must be at least 8 characters with upper, lower and digit", "WEAK_PASSWORD")
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "User not found", "USER_NOT_FOUND")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		response.Unauthorized(c, "Current password is incorrect", "AUTH_FAILED")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to change password")
		return
	}

	if err := h.repo.UpdatePassword(c.Request.Context(), userID, string(hash)); err != nil {
		response.InternalServerError(c, "Failed to change password")
		return
	}

	response.Success(c, gin.H{"message": "Password updated"})
}

// RegisterDevice godoc
// @Summary Register an FCM device token for push notifications
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RegisterDeviceRequest true "Device token"
// @Success 200 {object} response.SuccessResponse
// @Router /users/me/devices [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if err := h.repo.AddDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		response.InternalServerError(c, "Failed to register device")
		return
	}

	response.Success(c, gin.H{"message": "Device registered"})
}

// DeleteUser godoc
// @Summary Delete a user account (self or admin)
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	callerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	if targetID != callerID && c.GetString("role") != RoleAdmin {
		response.Forbidden(c, "Cannot delete another user's account")
		return
	}

	if err := h.repo.DeleteUser(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "User not found", "USER_NOT_FOUND")
			return
		}
		response.InternalServerError(c, "Failed to delete user")
		return
	}

	response.Success(c, gin.H{"message": "Account deleted"})
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw := c.GetString("userID")
	if raw == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
