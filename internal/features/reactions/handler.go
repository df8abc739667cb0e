package reactions

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/response"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SetReaction godoc
// @Summary Set a reaction (idempotent)
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReactionRequest true "Reaction payload"
// @Success 200 {object} response.SuccessResponse{data=ReactionResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reactions [post]
func (h *Handler) SetReaction(c *gin.Context) {
	h.react(c, h.service.SetReaction)
}

// ToggleReaction godoc
// @Summary Toggle a reaction on and off
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReactionRequest true "Reaction payload"
// @Success 200 {object} response.SuccessResponse{data=ReactionResult}
// @Failure 400 {object} response.ErrorResponse
// @Router /reactions/toggle [post]
func (h *Handler) ToggleReaction(c *gin.Context) {
	h.react(c, h.service.ToggleReaction)
}

type reactFunc func(ctx context.Context, userID, targetID primitive.ObjectID, targetType targets.Type, reactionType string) (*ReactionResult, error)

func (h *Handler) react(c *gin.Context, apply reactFunc) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	targetType, err := targets.Parse(req.TargetType)
	if err != nil {
		response.BadRequest(c, "Invalid target type", "INVALID_TARGET_TYPE")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.TargetID)
	if err != nil {
		response.BadRequest(c, "Invalid target ID", "INVALID_ID")
		return
	}

	result, err := apply(c.Request.Context(), userID, targetID, targetType, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Unknown reaction type", "INVALID_REACTION_TYPE")
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Target not found")
		default:
			logger.Error("reactions: apply failed: %v", err)
			response.InternalServerError(c, "Failed to apply reaction")
		}
		return
	}

	response.Success(c, result)
}

// GetCounts godoc
// @Summary Get like/dislike counts for a target
// @Tags reactions
// @Produce json
// @Param targetType path string true "Target type"
// @Param targetId path string true "Target ID"
// @Success 200 {object} response.SuccessResponse{data=Counts}
// @Failure 400 {object} response.ErrorResponse
// @Router /reactions/counts/{targetType}/{targetId} [get]
func (h *Handler) GetCounts(c *gin.Context) {
	targetType, targetID, ok := pathTarget(c)
	if !ok {
		return
	}

	counts, err := h.service.CountReactions(c.Request.Context(), targetID, targetType)
	if err != nil {
		logger.Error("reactions: count failed: %v", err)
		response.InternalServerError(c, "Failed to fetch reaction counts")
		return
	}

	response.Success(c, counts)
}

// GetUserReaction godoc
// @Summary Get the calling user's reaction on a target
// @Tags reactions
// @Produce json
// @Security BearerAuth
// @Param targetType path string true "Target type"
// @Param targetId path string true "Target ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /reactions/user/{targetType}/{targetId} [get]
func (h *Handler) GetUserReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetType, targetID, ok := pathTarget(c)
	if !ok {
		return
	}

	reaction, err := h.service.GetUserReaction(c.Request.Context(), userID, targetID, targetType)
	if err != nil {
		logger.Error("reactions: user reaction failed: %v", err)
		response.InternalServerError(c, "Failed to fetch reaction")
		return
	}

	response.Success(c, gin.H{"reaction": reaction})
}

func pathTarget(c *gin.Context) (targets.Type, primitive.ObjectID, bool) {
	targetType, err := targets.Parse(c.Param("targetType"))
	if err != nil {
		response.BadRequest(c, "Invalid target type", "INVALID_TARGET_TYPE")
		return "", primitive.NilObjectID, false
	}
	targetID, err := primitive.ObjectIDFromHex(c.Param("targetId"))
	if err != nil {
		response.BadRequest(c, "Invalid target ID", "INVALID_ID")
		return "", primitive.NilObjectID, false
	}
	return targetType, targetID, true
}

func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw := c.GetString("userID")
	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		response.Unauthorized(c, "Invalid authentication context")
		return primitive.NilObjectID, false
	}
	return userID, true
}
