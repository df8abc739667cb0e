package bookmarks

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/response"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Handler struct {
	repo         *Repository
	service      *Service
	resolver     *targets.Resolver
	activityRepo *activity.Repository
}

func NewHandler(repo *Repository, service *Service, resolver *targets.Resolver, activityRepo *activity.Repository) *Handler {
	return &Handler{repo: repo, service: service, resolver: resolver, activityRepo: activityRepo}
}

// CreateBookmark godoc
// @Summary Bookmark a claim or report
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookmarkRequest true "Bookmark payload"
// @Success 201 {object} response.SuccessResponse{data=Bookmark}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /bookmarks [post]
func (h *Handler) CreateBookmark(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	targetType, err := targets.Parse(req.TargetType)
	if err != nil || !targets.IsContentType(targetType) {
		response.BadRequest(c, "Bookmarks attach to claims and reports only", "INVALID_TARGET_TYPE")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.TargetID)
	if err != nil {
		response.BadRequest(c, "Invalid target ID", "INVALID_ID")
		return
	}

	if _, err := h.resolver.Resolve(c.Request.Context(), targetType, targetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Target not found")
			return
		}
		logger.Error("bookmarks: target resolve failed: %v", err)
		response.InternalServerError(c, "Failed to create bookmark")
		return
	}

	bookmark := &Bookmark{UserID: userID, TargetID: targetID, TargetType: targetType}

	if req.CollectionID != "" {
		collectionID, err := primitive.ObjectIDFromHex(req.CollectionID)
		if err != nil {
			response.BadRequest(c, "Invalid collection ID", "INVALID_ID")
			return
		}
		collection, err := h.repo.GetCollectionByID(c.Request.Context(), collectionID)
		if err != nil || collection.UserID != userID {
			response.NotFound(c, "Collection not found")
			return
		}
		bookmark.CollectionID = &collectionID
	}

	if err := h.repo.CreateBookmark(c.Request.Context(), bookmark); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "Already bookmarked")
			return
		}
		logger.Error("bookmarks: create failed: %v", err)
		response.InternalServerError(c, "Failed to create bookmark")
		return
	}

	if _, err := h.activityRepo.LogActivity(c.Request.Context(), userID, activity.TypeBookmark, targetType, targetID, modelName(targetType), ""); err != nil {
		logger.Warn("bookmarks: activity log failed for %s: %v", targetID.Hex(), err)
	}

	response.Created(c, bookmark)
}

// DeleteBookmark godoc
// @Summary Remove a bookmark
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bookmark ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /bookmarks/{id} [delete]
func (h *Handler) DeleteBookmark(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookmarkID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bookmark ID", "INVALID_ID")
		return
	}

	if err := h.repo.DeleteBookmark(c.Request.Context(), bookmarkID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Bookmark not found")
			return
		}
		logger.Error("bookmarks: delete failed: %v", err)
		response.InternalServerError(c, "Failed to delete bookmark")
		return
	}

	response.Success(c, gin.H{"message": "Bookmark removed"})
}

// GetUserBookmarks godoc
// @Summary List a user's bookmarks with resolved targets
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param paginated query bool false "Return paginated shape" default(true)
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param targetType query string false "Filter by target type"
// @Param collectionId query string false "Filter by collection"
// @Param search query string false "Case-insensitive search over target text"
// @Success 200 {object} response.SuccessResponse{data=PaginatedBookmarks}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /bookmarks/user/{userId} [get]
func (h *Handler) GetUserBookmarks(c *gin.Context) {
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}
	// Bookmarks are private to their owner.
	if userID != callerID {
		response.Forbidden(c, "You can only view your own bookmarks")
		return
	}

	opts := QueryOptions{Search: c.Query("search")}
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if raw := c.Query("targetType"); raw != "" {
		targetType, err := targets.Parse(raw)
		if err != nil || !targets.IsContentType(targetType) {
			response.BadRequest(c, "Invalid target type", "INVALID_TARGET_TYPE")
			return
		}
		opts.TargetType = targetType
	}
	if raw := c.Query("collectionId"); raw != "" {
		collectionID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.BadRequest(c, "Invalid collection ID", "INVALID_ID")
			return
		}
		opts.CollectionID = &collectionID
	}

	paginated := c.DefaultQuery("paginated", "true") != "false"
	if paginated {
		result, err := h.service.GetUserBookmarksPaginated(c.Request.Context(), userID, opts)
		if err != nil {
			logger.Error("bookmarks: paginated list failed: %v", err)
			response.InternalServerError(c, "Failed to fetch bookmarks")
			return
		}
		response.Success(c, result)
		return
	}

	rows, err := h.service.GetUserBookmarks(c.Request.Context(), userID, opts)
	if err != nil {
		logger.Error("bookmarks: list failed: %v", err)
		response.InternalServerError(c, "Failed to fetch bookmarks")
		return
	}
	response.Success(c, gin.H{"bookmarks": rows})
}

// Collections

// CreateCollection godoc
// @Summary Create a bookmark collection
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCollectionRequest true "Collection payload"
// @Success 201 {object} response.SuccessResponse{data=Collection}
// @Failure 409 {object} response.ErrorResponse
// @Router /collections [post]
func (h *Handler) CreateCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	collection := &Collection{UserID: userID, Name: req.Name, Description: req.Description}
	if err := h.repo.CreateCollection(c.Request.Context(), collection); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "A collection with that name already exists")
			return
		}
		logger.Error("bookmarks: collection create failed: %v", err)
		response.InternalServerError(c, "Failed to create collection")
		return
	}

	response.Created(c, collection)
}

// GetCollections godoc
// @Summary List the calling user's collections
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]Collection}
// @Router /collections [get]
func (h *Handler) GetCollections(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collections, err := h.repo.GetCollectionsByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("bookmarks: collection list failed: %v", err)
		response.InternalServerError(c, "Failed to fetch collections")
		return
	}

	response.Success(c, collections)
}

// UpdateCollection godoc
// @Summary Rename or redescribe a collection
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Param request body UpdateCollectionRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /collections/{id} [patch]
func (h *Handler) UpdateCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid collection ID", "INVALID_ID")
		return
	}

	var req UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	updates := bson.M{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if len(updates) == 0 {
		response.BadRequest(c, "Nothing to update", "EMPTY_UPDATE")
		return
	}

	if err := h.repo.UpdateCollection(c.Request.Context(), collectionID, userID, updates); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Collection not found")
		case errors.Is(err, apperrors.ErrDuplicate):
			response.Conflict(c, "A collection with that name already exists")
		default:
			logger.Error("bookmarks: collection update failed: %v", err)
			response.InternalServerError(c, "Failed to update collection")
		}
		return
	}

	response.Success(c, gin.H{"message": "Collection updated"})
}

// DeleteCollection godoc
// @Summary Delete a collection, keeping its bookmarks
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /collections/{id} [delete]
func (h *Handler) DeleteCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid collection ID", "INVALID_ID")
		return
	}

	if err := h.repo.DeleteCollection(c.Request.Context(), collectionID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Collection not found")
			return
		}
		logger.Error("bookmarks: collection delete failed: %v", err)
		response.InternalServerError(c, "Failed to delete collection")
		return
	}

	// Bookmarks survive their collection; they just come unfiled.
	if err := h.repo.DetachFromCollection(c.Request.Context(), collectionID); err != nil {
		logger.Warn("bookmarks: detach after collection delete failed: %v", err)
	}

	response.Success(c, gin.H{"message": "Collection deleted"})
}

// AssignCollection godoc
// @Summary File a bookmark under a collection
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bookmark ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /bookmarks/{id}/collection [patch]
func (h *Handler) AssignCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookmarkID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bookmark ID", "INVALID_ID")
		return
	}

	var req struct {
		CollectionID string `json:"collectionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	var collectionID *primitive.ObjectID
	if req.CollectionID != "" {
		parsed, err := primitive.ObjectIDFromHex(req.CollectionID)
		if err != nil {
			response.BadRequest(c, "Invalid collection ID", "INVALID_ID")
			return
		}
		collection, err := h.repo.GetCollectionByID(c.Request.Context(), parsed)
		if err != nil || collection.UserID != userID {
			response.NotFound(c, "Collection not found")
			return
		}
		collectionID = &parsed
	}

	if err := h.repo.AssignCollection(c.Request.Context(), bookmarkID, userID, collectionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Bookmark not found")
			return
		}
		logger.Error("bookmarks: assign collection failed: %v", err)
		response.InternalServerError(c, "Failed to update bookmark")
		return
	}

	response.Success(c, gin.H{"message": "Bookmark updated"})
}

func modelName(t targets.Type) string {
	switch t {
	case targets.TypeClaim:
		return "Claim"
	case targets.TypeReport:
		return "Report"
	default:
		return ""
	}
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
