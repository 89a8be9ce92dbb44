package youtube

import (
	"fmt"
	"log"

	"google.golang.org/api/youtube/v3"

	"ytcommentsync/internal/model"
)

// Flatten normalizes raw comment threads into canonical records. All
// knowledge of the remote response shape is confined to this step.
//
// Within each thread the top-level record precedes its replies, so that a
// reply's reply_to reference resolves to an already-inserted row when the
// batch is persisted in order. A thread whose top-level comment is malformed
// is skipped and logged; a malformed reply skips only that reply.
func Flatten(threads []*youtube.CommentThread, channelName string, logger *log.Logger) []model.Comment {
	var records []model.Comment

	for _, thread := range threads {
		if thread == nil || thread.Snippet == nil {
			logger.Printf("[Flatten] Thread without snippet, skipping: %v", model.ErrMalformedThread)
			continue
		}

		top, err := normalizeComment(thread.Snippet.TopLevelComment, channelName)
		if err != nil {
			logger.Printf("[Flatten] Skipping thread %s: %v", thread.Id, err)
			continue
		}
		records = append(records, top)

		if thread.Replies == nil {
			continue
		}
		for _, reply := range thread.Replies.Comments {
			rec, err := normalizeComment(reply, channelName)
			if err != nil {
				logger.Printf("[Flatten] Skipping reply in thread %s: %v", thread.Id, err)
				continue
			}
			records = append(records, rec)
		}
	}

	return records
}

func normalizeComment(c *youtube.Comment, channelName string) (model.Comment, error) {
	if c == nil || c.Snippet == nil {
		return model.Comment{}, model.ErrMalformedThread
	}
	s := c.Snippet

	if c.Id == "" || s.VideoId == "" {
		return model.Comment{}, fmt.Errorf("%w: missing comment or video id", model.ErrMalformedThread)
	}
	if s.AuthorChannelId == nil {
		return model.Comment{}, fmt.Errorf("%w: comment %s has no author channel", model.ErrMalformedThread, c.Id)
	}

	rec := model.Comment{
		VideoID:         s.VideoId,
		ChannelName:     channelName,
		ChannelID:       s.ChannelId,
		CommentID:       c.Id,
		Author:          s.AuthorDisplayName,
		AuthorChannelID: s.AuthorChannelId.Value,
		Text:            s.TextDisplay,
		PublishDate:     s.PublishedAt,
		UpdatedDate:     s.UpdatedAt,
	}
	if s.ParentId != "" {
		parent := s.ParentId
		rec.ReplyTo = &parent
	}

	return rec, nil
}
