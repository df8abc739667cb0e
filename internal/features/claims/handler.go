package claims

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/middleware"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/pagination"
	"github.com/verifact-app/backend/internal/pkg/response"
	"github.com/verifact-app/backend/internal/pkg/targets"
	"github.com/verifact-app/backend/internal/pkg/validator"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Handler struct {
	repo         *Repository
	authRepo     *auth.Repository
	activityRepo *activity.Repository
	scorer       Scorer
}

func NewHandler(repo *Repository, authRepo *auth.Repository, activityRepo *activity.Repository, scorer Scorer) *Handler {
	return &Handler{
		repo:         repo,
		authRepo:     authRepo,
		activityRepo: activityRepo,
		scorer:       scorer,
	}
}

// CreateClaim godoc
// @Summary Create a claim
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateClaimRequest true "Claim payload"
// @Success 201 {object} response.SuccessResponse{data=Claim}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /claims [post]
func (h *Handler) CreateClaim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	for _, src := range req.Sources {
		if !validator.IsValidURL(src) {
			response.BadRequest(c, "Sources must be valid URLs", "INVALID_SOURCE")
			return
		}
	}

	claim := &Claim{
		UserID:  userID,
		Content: req.Content,
		Sources: req.Sources,
	}

	if req.ReportID != "" {
		reportID, err := primitive.ObjectIDFromHex(req.ReportID)
		if err != nil {
			response.BadRequest(c, "Invalid report ID", "INVALID_ID")
			return
		}
		claim.ReportID = &reportID
	}

	summary, index, err := h.scorer.ScoreClaim(c.Request.Context(), req.Content, req.Sources)
	if err != nil {
		response.ServiceUnavailable(c, "Claim scoring is temporarily unavailable")
		return
	}
	claim.AISummary = summary
	claim.TruthIndex = index

	if err := h.repo.CreateClaim(c.Request.Context(), claim); err != nil {
		logger.Error("claims: create failed: %v", err)
		response.InternalServerError(c, "Failed to create claim")
		return
	}

	if _, err := h.activityRepo.LogActivity(c.Request.Context(), userID, activity.TypeCreateClaim, targets.TypeClaim, claim.ID, "Claim", ""); err != nil {
		logger.Warn("claims: activity log failed for claim %s: %v", claim.ID.Hex(), err)
	}

	response.Created(c, claim)
}

// GetAllClaims godoc
// @Summary List claims
// @Tags claims
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.SuccessResponse{data=PaginatedClaims}
// @Router /claims [get]
func (h *Handler) GetAllClaims(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}
	page, limit := pagination.Normalize(query.Page, query.Limit)

	claims, total, err := h.repo.GetAllClaims(c.Request.Context(), page, limit)
	if err != nil {
		logger.Error("claims: list failed: %v", err)
		response.InternalServerError(c, "Failed to fetch claims")
		return
	}

	response.Success(c, PaginatedClaims{
		Claims:     h.withAuthors(c, claims),
		Pagination: pagination.NewMeta(page, limit, total),
	})
}

// GetLatestClaims godoc
// @Summary List the newest claims
// @Tags claims
// @Produce json
// @Param limit query int false "Number of claims" default(10)
// @Success 200 {object} response.SuccessResponse{data=[]ClaimResponse}
// @Router /claims/latest [get]
func (h *Handler) GetLatestClaims(c *gin.Context) {
	_, limit := pagination.Normalize(1, queryInt(c, "limit", 10))

	claims, err := h.repo.GetLatestClaims(c.Request.Context(), limit)
	if err != nil {
		logger.Error("claims: latest failed: %v", err)
		response.InternalServerError(c, "Failed to fetch claims")
		return
	}

	response.Success(c, h.withAuthors(c, claims))
}

// SearchClaims godoc
// @Summary Search claims by content or summary
// @Tags claims
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.SuccessResponse{data=PaginatedClaims}
// @Failure 400 {object} response.ErrorResponse
// @Router /claims/search [get]
func (h *Handler) SearchClaims(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Search term is required", "INVALID_QUERY")
		return
	}
	page, limit := pagination.Normalize(query.Page, query.Limit)

	claims, total, err := h.repo.SearchClaims(c.Request.Context(), query.Q, page, limit)
	if err != nil {
		logger.Error("claims: search failed: %v", err)
		response.InternalServerError(c, "Failed to search claims")
		return
	}

	response.Success(c, PaginatedClaims{
		Claims:     h.withAuthors(c, claims),
		Pagination: pagination.NewMeta(page, limit, total),
	})
}

// GetClaim godoc
// @Summary Get a claim by ID
// @Tags claims
// @Produce json
// @Param id path string true "Claim ID"
// @Success 200 {object} response.SuccessResponse{data=ClaimResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /claims/{id} [get]
func (h *Handler) GetClaim(c *gin.Context) {
	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid claim ID", "INVALID_ID")
		return
	}

	claim, err := h.repo.GetClaimByID(c.Request.Context(), claimID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Claim not found")
			return
		}
		logger.Error("claims: get failed: %v", err)
		response.InternalServerError(c, "Failed to fetch claim")
		return
	}

	enriched := h.withAuthors(c, []Claim{*claim})
	response.Success(c, enriched[0])
}

// UpdateClaim godoc
// @Summary Update a claim
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param request body UpdateClaimRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse{data=Claim}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /claims/{id} [patch]
func (h *Handler) UpdateClaim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid claim ID", "INVALID_ID")
		return
	}

	var req UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	claim, err := h.repo.GetClaimByID(c.Request.Context(), claimID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Claim not found")
			return
		}
		logger.Error("claims: get for update failed: %v", err)
		response.InternalServerError(c, "Failed to fetch claim")
		return
	}
	if claim.DeletedAt != nil {
		response.NotFound(c, "Claim not found")
		return
	}
	if claim.UserID != userID {
		response.Forbidden(c, "You can only edit your own claims")
		return
	}

	updates := bson.M{}
	content := claim.Content
	sources := claim.Sources
	if req.Content != "" {
		updates["content"] = req.Content
		content = req.Content
	}
	if req.Sources != nil {
		for _, src := range req.Sources {
			if !validator.IsValidURL(src) {
				response.BadRequest(c, "Sources must be valid URLs", "INVALID_SOURCE")
				return
			}
		}
		updates["sources"] = req.Sources
		sources = req.Sources
	}
	if len(updates) == 0 {
		response.BadRequest(c, "Nothing to update", "EMPTY_UPDATE")
		return
	}

	// Content or sources changed, so the summary and index must be recomputed.
	summary, index, err := h.scorer.ScoreClaim(c.Request.Context(), content, sources)
	if err != nil {
		response.ServiceUnavailable(c, "Claim scoring is temporarily unavailable")
		return
	}
	updates["aiClaimSummary"] = summary
	updates["truthIndex"] = index

	if err := h.repo.UpdateClaim(c.Request.Context(), claimID, updates); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Claim not found")
			return
		}
		logger.Error("claims: update failed: %v", err)
		response.InternalServerError(c, "Failed to update claim")
		return
	}

	updated, err := h.repo.GetClaimByID(c.Request.Context(), claimID)
	if err != nil {
		logger.Error("claims: reload after update failed: %v", err)
		response.InternalServerError(c, "Failed to fetch claim")
		return
	}
	response.Success(c, updated)
}

// DeleteClaim godoc
// @Summary Soft-delete a claim
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /claims/{id} [delete]
func (h *Handler) DeleteClaim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid claim ID", "INVALID_ID")
		return
	}

	claim, err := h.repo.GetClaimByID(c.Request.Context(), claimID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Claim not found")
			return
		}
		logger.Error("claims: get for delete failed: %v", err)
		response.InternalServerError(c, "Failed to fetch claim")
		return
	}
	if claim.DeletedAt != nil {
		response.NotFound(c, "Claim not found")
		return
	}

	role := c.GetString("role")
	if claim.UserID != userID && role != middleware.RoleAdmin {
		response.Forbidden(c, "You can only delete your own claims")
		return
	}

	if err := h.repo.SoftDeleteClaim(c.Request.Context(), claimID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Claim not found")
			return
		}
		logger.Error("claims: delete failed: %v", err)
		response.InternalServerError(c, "Failed to delete claim")
		return
	}

	if _, err := h.activityRepo.LogActivity(c.Request.Context(), userID, activity.TypeDeleteClaim, targets.TypeClaim, claimID, "Claim", ""); err != nil {
		logger.Warn("claims: activity log failed for claim %s: %v", claimID.Hex(), err)
	}

	response.Success(c, gin.H{"message": "Claim deleted"})
}

// withAuthors joins author profiles onto claims in one batched lookup.
// A missing author (deleted account) leaves the field nil.
func (h *Handler) withAuthors(c *gin.Context, claims []Claim) []ClaimResponse {
	ids := make([]primitive.ObjectID, 0, len(claims))
	seen := make(map[primitive.ObjectID]bool)
	for _, claim := range claims {
		if !seen[claim.UserID] {
			seen[claim.UserID] = true
			ids = append(ids, claim.UserID)
		}
	}

	authors := make(map[primitive.ObjectID]ClaimAuthor)
	if len(ids) > 0 {
		users, err := h.authRepo.GetUsersByIDs(c.Request.Context(), ids)
		if err != nil {
			logger.Warn("claims: author lookup failed: %v", err)
		}
		for _, u := range users {
			authors[u.ID] = ClaimAuthor{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
		}
	}

	results := make([]ClaimResponse, 0, len(claims))
	for _, claim := range claims {
		resp := ClaimResponse{Claim: claim}
		if author, ok := authors[claim.UserID]; ok {
			resp.Author = &author
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

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
