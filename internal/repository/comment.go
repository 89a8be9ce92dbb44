package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ytcommentsync/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// InsertNewBatch checks each record against the (comment_id, updated_date)
// identity and inserts the unknown ones. One transaction covers the whole
// batch: a mid-batch failure rolls everything back and reports zero newly
// stored records.
//
// The check-then-insert is safe only because the store has a single writer;
// concurrent writers would need a uniqueness constraint plus upsert instead.
func (r *commentRepository) InsertNewBatch(ctx context.Context, records []model.Comment) ([]model.Comment, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch tx: %w", err)
	}
	defer tx.Rollback()

	var newlyStored []model.Comment

	for _, rec := range records {
		var exists bool
		err := tx.GetContext(ctx, &exists, `
			SELECT EXISTS(
				SELECT 1 FROM comments
				WHERE comment_id = ? AND updated_date = ?
			)
		`, rec.CommentID, rec.UpdatedDate)
		if err != nil {
			return nil, fmt.Errorf("check comment %s: %w", rec.CommentID, err)
		}
		if exists {
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO comments (
				youtube_video_id,
				channel_name,
				channel_id,
				comment_id,
				author,
				author_channel_id,
				text,
				publish_date,
				updated_date,
				reply_to
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.VideoID,
			rec.ChannelName,
			rec.ChannelID,
			rec.CommentID,
			rec.Author,
			rec.AuthorChannelID,
			rec.Text,
			rec.PublishDate,
			rec.UpdatedDate,
			rec.ReplyTo,
		)
		if err != nil {
			return nil, fmt.Errorf("insert comment %s: %w", rec.CommentID, err)
		}

		newlyStored = append(newlyStored, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return newlyStored, nil
}

// GetTextByCommentID returns the text of the latest stored row for a comment.
// Used when formatting a reply notification: the parent may legitimately be
// missing (never fetched, or its harvest failed), in which case the caller
// renders a "parent not found" placeholder.
func (r *commentRepository) GetTextByCommentID(ctx context.Context, commentID string) (string, error) {
	var text string
	err := r.db.GetContext(ctx, &text, `
		SELECT text
		FROM comments
		WHERE comment_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, commentID)
	if err == sql.ErrNoRows {
		return "", model.ErrCommentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get comment text: %w", err)
	}
	return text, nil
}

func (r *commentRepository) CountByCommentID(ctx context.Context, commentID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM comments WHERE comment_id = ?
	`, commentID)
	if err != nil {
		return 0, fmt.Errorf("count comment rows: %w", err)
	}
	return count, nil
}

func (r *commentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments`)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}
