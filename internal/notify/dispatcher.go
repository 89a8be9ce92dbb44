package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ytcommentsync/internal/model"
)

// defaultSendPause spaces out messages to stay under Telegram's per-chat
// send limits.
const defaultSendPause = 5 * time.Second

// MessageSender posts one pre-formatted message to a routing target.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID, text, parseMode string, threadID int64) error
}

// ParentLookup resolves the stored text of a parent comment for reply quoting.
type ParentLookup interface {
	GetTextByCommentID(ctx context.Context, commentID string) (string, error)
}

// DispatcherConfig is the routing setup for outgoing notifications.
type DispatcherConfig struct {
	ChatID         string
	UserID         string // empty disables mentions
	ThreadID       int64  // topic within a group; ignored for direct chats
	UTCOffsetHours int
	SendPause      time.Duration
}

// Dispatcher formats newly stored comments and relays them to Telegram.
// Failures are logged and swallowed: dispatch must never take down the sync
// loop.
type Dispatcher struct {
	sender  MessageSender
	parents ParentLookup
	cfg     DispatcherConfig
	logger  *log.Logger
}

func NewDispatcher(sender MessageSender, parents ParentLookup, cfg DispatcherConfig, logger *log.Logger) *Dispatcher {
	if cfg.SendPause <= 0 {
		cfg.SendPause = defaultSendPause
	}
	return &Dispatcher{
		sender:  sender,
		parents: parents,
		cfg:     cfg,
		logger:  logger,
	}
}

// NotifyNewComment formats and sends one comment, then pauses to respect the
// send budget.
func (d *Dispatcher) NotifyNewComment(ctx context.Context, c model.Comment) {
	text := d.formatComment(ctx, c)

	if d.cfg.UserID != "" {
		// Trailing invisible mention so the user gets pinged without
		// cluttering the message.
		text = fmt.Sprintf("%s[\\.](tg://user?id=%s)", text, d.cfg.UserID)
	}

	var err error
	if d.cfg.UserID != "" && d.cfg.UserID == d.cfg.ChatID {
		err = d.sender.SendMessage(ctx, d.cfg.ChatID, text, "MarkdownV2", 0)
	} else {
		err = d.sender.SendMessage(ctx, d.cfg.ChatID, text, "MarkdownV2", d.cfg.ThreadID)
	}
	if err != nil {
		d.logger.Printf("[Notify] Failed to send notification for comment %s: %v", c.CommentID, err)
		return
	}

	select {
	case <-time.After(d.cfg.SendPause):
	case <-ctx.Done():
	}
}

func (d *Dispatcher) formatComment(ctx context.Context, c model.Comment) string {
	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", c.VideoID)
	header := fmt.Sprintf("[%s](%s)", EscapeMarkdownV2(c.ChannelName), videoURL)

	quoted := quoteLines(c.Text)
	if c.Edited() {
		quoted += "\n\n_\\(Comment edited\\)_"
	}

	date := EscapeMarkdownV2(formatPublishDate(c.PublishDate, d.cfg.UTCOffsetHours, d.logger))

	replyNote := ""
	if c.IsReply() {
		parentText, err := d.parents.GetTextByCommentID(ctx, *c.ReplyTo)
		if err != nil && !errors.Is(err, model.ErrCommentNotFound) {
			d.logger.Printf("[Notify] Failed to look up parent %s: %v", *c.ReplyTo, err)
		}
		replyNote = formatParentQuote(parentText, err == nil)
	}

	return fmt.Sprintf(
		"%s\n\n*Author:* %s\n\n%s\n\n*Date:* %s%s",
		header, EscapeMarkdownV2(c.Author), quoted, date, replyNote,
	)
}
