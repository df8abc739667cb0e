package bookmarks

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verifact-app/backend/internal/features/comments"
	"github.com/verifact-app/backend/internal/features/reactions"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/pkg/pagination"
)

// Service wraps the aggregation repository with per-row live enrichment:
// comment and reaction counts come from their own collections at read
// time, one count query pair per row.
type Service struct {
	repo      *Repository
	comments  *comments.Repository
	reactions *reactions.Repository
}

func NewService(repo *Repository, commentRepo *comments.Repository, reactionRepo *reactions.Repository) *Service {
	return &Service{repo: repo, comments: commentRepo, reactions: reactionRepo}
}

// GetUserBookmarksPaginated is the primary listing path.
func (s *Service) GetUserBookmarksPaginated(ctx context.Context, userID primitive.ObjectID, opts QueryOptions) (*PaginatedBookmarks, error) {
	opts.Paginate = true
	opts.Page, opts.Limit = pagination.Normalize(opts.Page, opts.Limit)

	rows, total, err := s.repo.Aggregate(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, rows)

	return &PaginatedBookmarks{
		Bookmarks:  rows,
		Pagination: pagination.NewMeta(opts.Page, opts.Limit, total),
	}, nil
}

// GetUserBookmarks is the legacy non-paginated path: same join and
// enrichment, everything in one page.
func (s *Service) GetUserBookmarks(ctx context.Context, userID primitive.ObjectID, opts QueryOptions) ([]BookmarkRow, error) {
	opts.Paginate = false

	rows, _, err := s.repo.Aggregate(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, rows)
	return rows, nil
}

// enrich attaches live comment and reaction counts to each row. A failed
// count logs and leaves the row's zeros in place.
func (s *Service) enrich(ctx context.Context, rows []BookmarkRow) {
	for i := range rows {
		row := &rows[i]

		commentCount, err := s.comments.CountByTarget(ctx, row.TargetType, row.TargetID)
		if err != nil {
			logger.Warn("bookmarks: comment count for %s failed: %v", row.TargetID.Hex(), err)
		} else {
			row.CommentCount = commentCount
		}

		counts, err := s.reactions.CountByTarget(ctx, row.TargetID, row.TargetType)
		if err != nil {
			logger.Warn("bookmarks: reaction count for %s failed: %v", row.TargetID.Hex(), err)
			continue
		}
		row.LikeCount = counts.Like
		row.DislikeCount = counts.Dislike
	}
}
