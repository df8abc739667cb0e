package activity

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/pagination"
	"github.com/verifact-app/backend/internal/pkg/response"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

type Handler struct {
	repo     *Repository
	authRepo *auth.Repository
	resolver *targets.Resolver
}

func NewHandler(repo *Repository, authRepo *auth.Repository, resolver *targets.Resolver) *Handler {
	return &Handler{repo: repo, authRepo: authRepo, resolver: resolver}
}

// GetUserActivities godoc
// @Summary Get a user's activity feed
// @Tags activities
// @Produce json
// @Param userId path string true "User ID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 50)"
// @Success 200 {object} response.SuccessResponse{data=PaginatedActivities}
// @Router /activities/user/{userId} [get]
func (h *Handler) GetUserActivities(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	activities, total, err := h.repo.GetUserActivities(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.InternalServerError(c, "Failed to fetch activities")
		return
	}

	response.Success(c, PaginatedActivities{
		Activities: h.enrich(c.Request.Context(), activities),
		Pagination: pagination.NewMeta(query.Page, query.Limit, total),
	})
}

// GetActivitiesByDateRange godoc
// @Summary Get a user's activities within a date range
// @Tags activities
// @Produce json
// @Param userId path string true "User ID"
// @Param start query string true "Start date (RFC 3339 or YYYY-MM-DD)"
// @Param end query string true "End date (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} response.SuccessResponse{data=PaginatedActivities}
// @Router /activities/user/{userId}/range [get]
func (h *Handler) GetActivitiesByDateRange(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	var query DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "start and end are required", "INVALID_QUERY")
		return
	}

	start, err := parseDate(query.Start)
	if err != nil {
		response.BadRequest(c, "Invalid start date", "INVALID_DATE")
		return
	}
	end, err := parseDate(query.End)
	if err != nil {
		response.BadRequest(c, "Invalid end date", "INVALID_DATE")
		return
	}
	if end.Before(start) {
		response.BadRequest(c, "end must not be before start", "INVALID_RANGE")
		return
	}
	// A bare end date means "through that whole day"
	if len(query.End) == len("2006-01-02") {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	activities, total, err := h.repo.GetActivitiesByDateRange(c.Request.Context(), userID, start, end, query.Page, query.Limit)
	if err != nil {
		response.InternalServerError(c, "Failed to fetch activities")
		return
	}

	response.Success(c, PaginatedActivities{
		Activities: h.enrich(c.Request.Context(), activities),
		Pagination: pagination.NewMeta(query.Page, query.Limit, total),
	})
}

// enrich attaches each activity's target owner. Enrichment is best-effort:
// a failed lookup logs and leaves the owner empty instead of failing the page.
func (h *Handler) enrich(ctx context.Context, activities []Activity) []EnrichedActivity {
	enriched := make([]EnrichedActivity, len(activities))
	for i, act := range activities {
		enriched[i] = EnrichedActivity{Activity: act}

		info, err := h.resolver.Resolve(ctx, act.TargetType, act.TargetID)
		if err != nil {
			logger.Warn("activity: could not resolve target %s/%s: %v", act.TargetType, act.TargetID.Hex(), err)
			continue
		}

		owner, err := h.authRepo.GetUserByID(ctx, info.OwnerID)
		if err != nil {
			logger.Warn("activity: could not load owner of %s/%s: %v", act.TargetType, act.TargetID.Hex(), err)
			continue
		}

		enriched[i].TargetOwner = &TargetOwner{ID: owner.ID, Username: owner.Username}
	}
	return enriched
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
