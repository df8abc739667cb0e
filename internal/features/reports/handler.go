package reports

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/features/claims"
	"github.com/verifact-app/backend/internal/middleware"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/pagination"
	"github.com/verifact-app/backend/internal/pkg/response"
	"github.com/verifact-app/backend/internal/pkg/targets"
	apperrors "github.com/verifact-app/backend/pkg/errors"
)

type Handler struct {
	repo         *Repository
	authRepo     *auth.Repository
	claimRepo    *claims.Repository
	activityRepo *activity.Repository
}

func NewHandler(repo *Repository, authRepo *auth.Repository, claimRepo *claims.Repository, activityRepo *activity.Repository) *Handler {
	return &Handler{
		repo:         repo,
		authRepo:     authRepo,
		claimRepo:    claimRepo,
		activityRepo: activityRepo,
	}
}

// CreateReport godoc
// @Summary Create a report
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReportRequest true "Report payload"
// @Success 201 {object} response.SuccessResponse{data=Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	if !IsValidVerdict(req.TruthVerdict) {
		response.BadRequest(c, "Invalid truth verdict", "INVALID_VERDICT")
		return
	}

	claimIDs := make([]primitive.ObjectID, 0, len(req.ClaimIDs))
	for _, raw := range req.ClaimIDs {
		claimID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.BadRequest(c, "Invalid claim ID", "INVALID_ID")
			return
		}
		if _, err := h.claimRepo.GetClaimByID(c.Request.Context(), claimID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				response.BadRequest(c, "Linked claim does not exist", "UNKNOWN_CLAIM")
				return
			}
			logger.Error("reports: claim lookup failed: %v", err)
			response.InternalServerError(c, "Failed to create report")
			return
		}
		claimIDs = append(claimIDs, claimID)
	}

	report := &Report{
		UserID:       userID,
		Title:        req.Title,
		Content:      req.Content,
		Conclusion:   req.Conclusion,
		TruthVerdict: req.TruthVerdict,
		References:   req.References,
		ClaimIDs:     claimIDs,
		AISummary:    summarize(req.Conclusion, req.Content),
	}

	if err := h.repo.CreateReport(c.Request.Context(), report); err != nil {
		logger.Error("reports: create failed: %v", err)
		response.InternalServerError(c, "Failed to create report")
		return
	}

	// Back-link each covered claim to this report. Best effort: the report
	// exists either way and the link can be repaired.
	for _, claimID := range claimIDs {
		if err := h.claimRepo.AttachReport(c.Request.Context(), claimID, report.ID); err != nil {
			logger.Warn("reports: back-link to claim %s failed: %v", claimID.Hex(), err)
		}
	}

	if _, err := h.activityRepo.LogActivity(c.Request.Context(), userID, activity.TypeCreateReport, targets.TypeReport, report.ID, "Report", ""); err != nil {
		logger.Warn("reports: activity log failed for report %s: %v", report.ID.Hex(), err)
	}

	response.Created(c, report)
}

// GetAllReports godoc
// @Summary List reports
// @Tags reports
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param verdict query string false "Filter by truth verdict"
// @Success 200 {object} response.SuccessResponse{data=PaginatedReports}
// @Router /reports [get]
func (h *Handler) GetAllReports(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}
	if query.Verdict != "" && !IsValidVerdict(query.Verdict) {
		response.BadRequest(c, "Invalid truth verdict", "INVALID_VERDICT")
		return
	}
	page, limit := pagination.Normalize(query.Page, query.Limit)

	reports, total, err := h.repo.GetAllReports(c.Request.Context(), query.Verdict, page, limit)
	if err != nil {
		logger.Error("reports: list failed: %v", err)
		response.InternalServerError(c, "Failed to fetch reports")
		return
	}

	response.Success(c, PaginatedReports{
		Reports:    h.withAuthors(c, reports),
		Pagination: pagination.NewMeta(page, limit, total),
	})
}

// SearchReports godoc
// @Summary Search reports by title, content or conclusion
// @Tags reports
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.SuccessResponse{data=PaginatedReports}
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/search [get]
func (h *Handler) SearchReports(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Search term is required", "INVALID_QUERY")
		return
	}
	page, limit := pagination.Normalize(query.Page, query.Limit)

	reports, total, err := h.repo.SearchReports(c.Request.Context(), query.Q, page, limit)
	if err != nil {
		logger.Error("reports: search failed: %v", err)
		response.InternalServerError(c, "Failed to search reports")
		return
	}

	response.Success(c, PaginatedReports{
		Reports:    h.withAuthors(c, reports),
		Pagination: pagination.NewMeta(page, limit, total),
	})
}

// GetReport godoc
// @Summary Get a report by ID
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=ReportResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [get]
func (h *Handler) GetReport(c *gin.Context) {
	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID", "INVALID_ID")
		return
	}

	report, err := h.repo.GetReportByID(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found")
			return
		}
		logger.Error("reports: get failed: %v", err)
		response.InternalServerError(c, "Failed to fetch report")
		return
	}

	enriched := h.withAuthors(c, []Report{*report})
	response.Success(c, enriched[0])
}

// UpdateReport godoc
// @Summary Update a report
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body UpdateReportRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse{data=Report}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [patch]
func (h *Handler) UpdateReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID", "INVALID_ID")
		return
	}

	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_REQUEST")
		return
	}

	report, err := h.repo.GetReportByID(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found")
			return
		}
		logger.Error("reports: get for update failed: %v", err)
		response.InternalServerError(c, "Failed to fetch report")
		return
	}
	if report.DeletedAt != nil {
		response.NotFound(c, "Report not found")
		return
	}
	if report.UserID != userID {
		response.Forbidden(c, "You can only edit your own reports")
		return
	}

	updates := bson.M{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.Conclusion != "" {
		updates["conclusion"] = req.Conclusion
	}
	if req.TruthVerdict != "" {
		if !IsValidVerdict(req.TruthVerdict) {
			response.BadRequest(c, "Invalid truth verdict", "INVALID_VERDICT")
			return
		}
		updates["truthVerdict"] = req.TruthVerdict
	}
	if req.References != nil {
		updates["references"] = req.References
	}
	if len(updates) == 0 {
		response.BadRequest(c, "Nothing to update", "EMPTY_UPDATE")
		return
	}

	if req.Conclusion != "" || req.Content != "" {
		conclusion := report.Conclusion
		content := report.Content
		if req.Conclusion != "" {
			conclusion = req.Conclusion
		}
		if req.Content != "" {
			content = req.Content
		}
		updates["aiReportSummary"] = summarize(conclusion, content)
	}

	if err := h.repo.UpdateReport(c.Request.Context(), reportID, updates); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found")
			return
		}
		logger.Error("reports: update failed: %v", err)
		response.InternalServerError(c, "Failed to update report")
		return
	}

	updated, err := h.repo.GetReportByID(c.Request.Context(), reportID)
	if err != nil {
		logger.Error("reports: reload after update failed: %v", err)
		response.InternalServerError(c, "Failed to fetch report")
		return
	}
	response.Success(c, updated)
}

// DeleteReport godoc
// @Summary Soft-delete a report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [delete]
func (h *Handler) DeleteReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID", "INVALID_ID")
		return
	}

	report, err := h.repo.GetReportByID(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found")
			return
		}
		logger.Error("reports: get for delete failed: %v", err)
		response.InternalServerError(c, "Failed to fetch report")
		return
	}
	if report.DeletedAt != nil {
		response.NotFound(c, "Report not found")
		return
	}

	role := c.GetString("role")
	if report.UserID != userID && role != middleware.RoleAdmin {
		response.Forbidden(c, "You can only delete your own reports")
		return
	}

	if err := h.repo.SoftDeleteReport(c.Request.Context(), reportID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found")
			return
		}
		logger.Error("reports: delete failed: %v", err)
		response.InternalServerError(c, "Failed to delete report")
		return
	}

	if _, err := h.activityRepo.LogActivity(c.Request.Context(), userID, activity.TypeDeleteReport, targets.TypeReport, reportID, "Report", ""); err != nil {
		logger.Warn("reports: activity log failed for report %s: %v", reportID.Hex(), err)
	}

	response.Success(c, gin.H{"message": "Report deleted"})
}

func (h *Handler) withAuthors(c *gin.Context, items []Report) []ReportResponse {
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]bool)
	for _, report := range items {
		if !seen[report.UserID] {
			seen[report.UserID] = true
			ids = append(ids, report.UserID)
		}
	}

	authors := make(map[primitive.ObjectID]ReportAuthor)
	if len(ids) > 0 {
		users, err := h.authRepo.GetUsersByIDs(c.Request.Context(), ids)
		if err != nil {
			logger.Warn("reports: author lookup failed: %v", err)
		}
		for _, u := range users {
			authors[u.ID] = ReportAuthor{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
		}
	}

	results := make([]ReportResponse, 0, len(items))
	for _, report := range items {
		resp := ReportResponse{Report: report}
		if author, ok := authors[report.UserID]; ok {
			resp.Author = &author
		}
		results = append(results, resp)
	}
	return results
}

// summarize prefers the conclusion, falling back to the opening of the
// content, capped at 180 characters.
func summarize(conclusion, content string) string {
	text := strings.TrimSpace(conclusion)
	if text == "" {
		text = strings.TrimSpace(content)
	}
	if i := strings.IndexAny(text, ".!?"); i > 0 && i < len(text)-1 {
		text = text[:i+1]
	}
	if len(text) > 180 {
		text = text[:177] + "..."
	}
	return text
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
