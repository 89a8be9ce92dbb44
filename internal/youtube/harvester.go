package youtube

import (
	"context"
	"errors"
	"log"

	"google.golang.org/api/youtube/v3"

	"ytcommentsync/internal/model"
)

// threadPageSize is the remote ceiling for commentThreads.list.
const threadPageSize = 100

// Harvester pages through the comment threads of a single video.
type Harvester struct {
	svc      *youtube.Service
	logger   *log.Logger
	pageSize int64
}

func NewHarvester(svc *youtube.Service, logger *log.Logger) *Harvester {
	return &Harvester{
		svc:      svc,
		logger:   logger,
		pageSize: threadPageSize,
	}
}

// ListCommentThreads accumulates the video's comment threads (top-level
// comment plus replies) across pages.
//
// It never fails the whole video: on any error it stops and returns whatever
// was collected so far. Comments being disabled is expected and handled
// silently; unauthorized and not-found stop the video with a log line.
func (h *Harvester) ListCommentThreads(ctx context.Context, videoID string) []*youtube.CommentThread {
	var threads []*youtube.CommentThread
	pageToken := ""

	for {
		resp, err := h.svc.CommentThreads.
			List([]string{"snippet", "replies"}).
			VideoId(videoID).
			MaxResults(h.pageSize).
			TextFormat("plainText").
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			err = classifyError(err)
			switch {
			case errors.Is(err, model.ErrCommentsDisabled):
				// Expected; nothing to harvest.
			case errors.Is(err, model.ErrUnauthorized):
				h.logger.Printf("[Harvester] Unauthorized while harvesting video %s, stopping video", videoID)
			case errors.Is(err, model.ErrVideoNotFound):
				h.logger.Printf("[Harvester] Video %s not found, skipping", videoID)
			default:
				h.logger.Printf("[Harvester] Failed to fetch comments for video %s: %v", videoID, err)
			}
			return threads
		}

		threads = append(threads, resp.Items...)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return threads
		}
	}
}
