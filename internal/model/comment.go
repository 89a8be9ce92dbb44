package model

import "errors"

// Comment is the canonical, storage-ready representation of one remote
// comment or reply. Top-level comments and replies share this shape; a reply
// differs only by a populated ReplyTo.
type Comment struct {
	ID              int64   `db:"id" json:"id"`
	VideoID         string  `db:"youtube_video_id" json:"youtube_video_id"`
	ChannelName     string  `db:"channel_name" json:"channel_name"`
	ChannelID       string  `db:"channel_id" json:"channel_id"`
	CommentID       string  `db:"comment_id" json:"comment_id"`
	Author          string  `db:"author" json:"author"`
	AuthorChannelID string  `db:"author_channel_id" json:"author_channel_id"`
	Text            string  `db:"text" json:"text"`
	PublishDate     string  `db:"publish_date" json:"publish_date"`
	UpdatedDate     string  `db:"updated_date" json:"updated_date"`
	ReplyTo         *string `db:"reply_to" json:"reply_to,omitempty"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ReplyTo != nil && *c.ReplyTo != ""
}

// Edited reports whether the comment was edited after publication.
// The remote API keeps updatedAt equal to publishedAt for untouched comments.
func (c *Comment) Edited() bool {
	return c.UpdatedDate != "" && c.UpdatedDate != c.PublishDate
}

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrMalformedThread = errors.New("comment thread is missing required fields")
)
