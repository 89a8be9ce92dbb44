package repository

import (
	"context"

	"ytcommentsync/internal/model"
)

type CommentRepository interface {
	// InsertNewBatch persists every record that is not yet known and returns
	// the newly stored subsequence, in input order. Identity is the pair
	// (comment_id, updated_date). The whole batch runs in one transaction.
	InsertNewBatch(ctx context.Context, records []model.Comment) ([]model.Comment, error)

	// GetTextByCommentID returns the text of the most recently stored row
	// for a comment. Returns model.ErrCommentNotFound when no row exists.
	GetTextByCommentID(ctx context.Context, commentID string) (string, error)

	// CountByCommentID returns how many stored rows share a comment_id
	// (more than one means the comment was edited upstream).
	CountByCommentID(ctx context.Context, commentID string) (int, error)

	// Count returns the total number of stored rows.
	Count(ctx context.Context) (int, error)
}
