package comments

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/middleware"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/response"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Handler struct {
	repo     *Repository
	service  *Service
	authRepo *auth.Repository
}

func NewHandler(repo *Repository, service *Service, authRepo *auth.Repository) *Handler {
	return &Handler{repo: repo, service: service, authRepo: authRepo}
}

// CreateComment godoc
// @Summary Comment on a claim or report
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.SuccessResponse{data=Comment}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
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

	var parentID *primitive.ObjectID
	if req.ParentCommentID != "" {
		parsed, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			response.BadRequest(c, "Invalid parent comment ID", "INVALID_ID")
			return
		}
		parentID = &parsed
	}

	comment, err := h.service.Create(c.Request.Context(), userID, targetType, targetID, parentID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, err.Error(), "INVALID_TARGET")
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Target not found")
		default:
			logger.Error("comments: create failed: %v", err)
			response.InternalServerError(c, "Failed to create comment")
		}
		return
	}

	response.Created(c, comment)
}

// GetCommentsByTarget godoc
// @Summary Get the comment tree of a claim or report
// @Tags comments
// @Produce json
// @Param targetType path string true "Target type (claim or report)"
// @Param targetId path string true "Target ID"
// @Success 200 {object} response.SuccessResponse{data=[]CommentNode}
// @Failure 400 {object} response.ErrorResponse
// @Router /comments/{targetType}/{targetId} [get]
func (h *Handler) GetCommentsByTarget(c *gin.Context) {
	targetType, err := targets.Parse(c.Param("targetType"))
	if err != nil || !targets.IsContentType(targetType) {
		response.BadRequest(c, "Invalid target type", "INVALID_TARGET_TYPE")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(c.Param("targetId"))
	if err != nil {
		response.BadRequest(c, "Invalid target ID", "INVALID_ID")
		return
	}

	flat, err := h.repo.GetCommentsByTarget(c.Request.Context(), targetType, targetID)
	if err != nil {
		logger.Error("comments: list failed: %v", err)
		response.InternalServerError(c, "Failed to fetch comments")
		return
	}

	// Viewer annotation works for anonymous requests too.
	viewer := primitive.NilObjectID
	if raw := c.GetString("userID"); raw != "" {
		if parsed, err := primitive.ObjectIDFromHex(raw); err == nil {
			viewer = parsed
		}
	}

	tree := BuildTree(flat, viewer)
	h.attachAuthors(c, tree, flat)

	response.Success(c, tree)
}

// UpdateComment godoc
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Param request body UpdateCommentRequest true "New content"
// @Success 200 {object} response.SuccessResponse{data=Comment}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /comments/{commentId} [patch]
func (h *Handler) UpdateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		response.BadRequest(c, "Invalid comment ID", "INVALID_ID")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	comment, err := h.repo.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Comment not found")
			return
		}
		logger.Error("comments: get for update failed: %v", err)
		response.InternalServerError(c, "Failed to fetch comment")
		return
	}
	if comment.UserID != userID {
		response.Forbidden(c, "You can only edit your own comments")
		return
	}

	if err := h.repo.UpdateContent(c.Request.Context(), commentID, req.Content); err != nil {
		logger.Error("comments: update failed: %v", err)
		response.InternalServerError(c, "Failed to update comment")
		return
	}

	comment.Content = req.Content
	response.Success(c, comment)
}

// DeleteComment godoc
// @Summary Delete a comment and its direct replies
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /comments/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		response.BadRequest(c, "Invalid comment ID", "INVALID_ID")
		return
	}

	comment, err := h.repo.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Comment not found")
			return
		}
		logger.Error("comments: get for delete failed: %v", err)
		response.InternalServerError(c, "Failed to fetch comment")
		return
	}

	role := c.GetString("role")
	if comment.UserID != userID && role != middleware.RoleAdmin {
		response.Forbidden(c, "You can only delete your own comments")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), commentID)
	if err != nil {
		logger.Error("comments: delete failed: %v", err)
		response.InternalServerError(c, "Failed to delete comment")
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// ToggleLike godoc
// @Summary Toggle a like on a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} response.SuccessResponse{data=Comment}
// @Failure 404 {object} response.ErrorResponse
// @Router /comments/{commentId}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	h.toggle(c, true)
}

// ToggleDislike godoc
// @Summary Toggle a dislike on a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} response.SuccessResponse{data=Comment}
// @Failure 404 {object} response.ErrorResponse
// @Router /comments/{commentId}/dislike [post]
func (h *Handler) ToggleDislike(c *gin.Context) {
	h.toggle(c, false)
}

func (h *Handler) toggle(c *gin.Context, like bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		response.BadRequest(c, "Invalid comment ID", "INVALID_ID")
		return
	}

	var comment *Comment
	if like {
		comment, err = h.service.ToggleLike(c.Request.Context(), commentID, userID)
	} else {
		comment, err = h.service.ToggleDislike(c.Request.Context(), commentID, userID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Comment not found")
			return
		}
		logger.Error("comments: toggle failed: %v", err)
		response.InternalServerError(c, "Failed to update reaction")
		return
	}

	response.Success(c, comment)
}

// attachAuthors decorates every node of the forest with its author profile
// in one batched lookup. Missing authors stay nil.
func (h *Handler) attachAuthors(c *gin.Context, tree []*CommentNode, flat []Comment) {
	ids := make([]primitive.ObjectID, 0, len(flat))
	seen := make(map[primitive.ObjectID]bool)
	for _, comment := range flat {
		if !seen[comment.UserID] {
			seen[comment.UserID] = true
			ids = append(ids, comment.UserID)
		}
	}
	if len(ids) == 0 {
		return
	}

	users, err := h.authRepo.GetUsersByIDs(c.Request.Context(), ids)
	if err != nil {
		logger.Warn("comments: author lookup failed: %v", err)
		return
	}
	authors := make(map[primitive.ObjectID]CommentAuthor, len(users))
	for _, u := range users {
		authors[u.ID] = CommentAuthor{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
	}

	var walk func(nodes []*CommentNode)
	walk = func(nodes []*CommentNode) {
		for _, node := range nodes {
			if author, ok := authors[node.UserID]; ok {
				node.Author = &author
			}
			walk(node.Replies)
		}
	}
	walk(tree)
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
