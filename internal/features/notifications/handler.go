package notifications

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/pagination"
	"github.com/verifact-app/backend/internal/pkg/response"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Handler struct {
	repo     *Repository
	authRepo *auth.Repository
}

func NewHandler(repo *Repository, authRepo *auth.Repository) *Handler {
	return &Handler{repo: repo, authRepo: authRepo}
}

// GetNotifications godoc
// @Summary List the calling user's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} response.SuccessResponse{data=PaginatedNotifications}
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}
	page, limit := pagination.Normalize(query.Page, query.Limit)

	items, total, err := h.repo.GetByRecipient(c.Request.Context(), userID, query.Unread, page, limit)
	if err != nil {
		logger.Error("notifications: list failed: %v", err)
		response.InternalServerError(c, "Failed to fetch notifications")
		return
	}

	unread, err := h.repo.CountUnread(c.Request.Context(), userID)
	if err != nil {
		logger.Error("notifications: unread count failed: %v", err)
		response.InternalServerError(c, "Failed to fetch notifications")
		return
	}

	response.Success(c, PaginatedNotifications{
		Notifications: h.withSenders(c, items),
		UnreadCount:   unread,
		Pagination:    pagination.NewMeta(page, limit, total),
	})
}

// GetUnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	unread, err := h.repo.CountUnread(c.Request.Context(), userID)
	if err != nil {
		logger.Error("notifications: unread count failed: %v", err)
		response.InternalServerError(c, "Failed to fetch unread count")
		return
	}

	response.Success(c, gin.H{"unreadCount": unread})
}

// MarkAsRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid notification ID", "INVALID_ID")
		return
	}

	if err := h.repo.MarkAsRead(c.Request.Context(), notificationID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Notification not found")
			return
		}
		logger.Error("notifications: mark read failed: %v", err)
		response.InternalServerError(c, "Failed to update notification")
		return
	}

	response.Success(c, gin.H{"message": "Notification marked as read"})
}

// MarkAllAsRead godoc
// @Summary Mark all of the calling user's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /notifications/read-all [patch]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	modified, err := h.repo.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		logger.Error("notifications: mark all read failed: %v", err)
		response.InternalServerError(c, "Failed to update notifications")
		return
	}

	response.Success(c, gin.H{"markedRead": modified})
}

func (h *Handler) withSenders(c *gin.Context, items []Notification) []NotificationResponse {
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]bool)
	for _, n := range items {
		if !seen[n.SenderID] {
			seen[n.SenderID] = true
			ids = append(ids, n.SenderID)
		}
	}

	senders := make(map[primitive.ObjectID]NotificationSender)
	if len(ids) > 0 {
		users, err := h.authRepo.GetUsersByIDs(c.Request.Context(), ids)
		if err != nil {
			logger.Warn("notifications: sender lookup failed: %v", err)
		}
		for _, u := range users {
			senders[u.ID] = NotificationSender{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
		}
	}

	results := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		resp := NotificationResponse{Notification: n}
		if sender, ok := senders[n.SenderID]; ok {
			resp.Sender = &sender
		}
		results = append(results, resp)
	}
	return results
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
