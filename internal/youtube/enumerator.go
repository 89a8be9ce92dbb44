package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/youtube/v3"

	"ytcommentsync/internal/model"
)

const (
	// videoPageSize is the remote ceiling for playlistItems.list.
	videoPageSize = 50

	// rateLimitCooldown is how long to wait before retrying a rate-limited
	// page request.
	rateLimitCooldown = 10 * time.Second
)

// Enumerator pages through a channel's uploads playlist.
type Enumerator struct {
	svc      *youtube.Service
	logger   *log.Logger
	pageSize int64
	cooldown time.Duration

	// limiter paces page requests to stay under informal per-second budgets.
	limiter *rate.Limiter
}

func NewEnumerator(svc *youtube.Service, logger *log.Logger) *Enumerator {
	return &Enumerator{
		svc:      svc,
		logger:   logger,
		pageSize: videoPageSize,
		cooldown: rateLimitCooldown,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// ListVideoIDs accumulates every video ID in the playlist, in page order.
//
// Failure policy: quota exhaustion and any unclassified error are terminal;
// no partial list is returned. A rate-limit response gets one cooldown-and-
// retry per page; a second consecutive one surfaces as terminal.
func (e *Enumerator) ListVideoIDs(ctx context.Context, uploadsPlaylistID string) ([]string, error) {
	var videoIDs []string
	pageToken := ""
	pageCount := 0
	retried := false

	for {
		resp, err := e.svc.PlaylistItems.
			List([]string{"contentDetails"}).
			PlaylistId(uploadsPlaylistID).
			MaxResults(e.pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			err = classifyError(err)

			if errors.Is(err, model.ErrRateLimited) && !retried {
				e.logger.Printf("[Enumerator] Rate limited on page %d, cooling down %s", pageCount+1, e.cooldown)
				retried = true
				select {
				case <-time.After(e.cooldown):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}

			if errors.Is(err, model.ErrQuotaExceeded) {
				e.logger.Printf("[Enumerator] Quota exceeded after %d pages, aborting channel cycle", pageCount)
			} else {
				e.logger.Printf("[Enumerator] Failed on page %d: %v", pageCount+1, err)
			}
			return nil, fmt.Errorf("list playlist %s: %w", uploadsPlaylistID, err)
		}
		retried = false

		for _, item := range resp.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				e.logger.Printf("[Enumerator] Playlist item without video id, skipping")
				continue
			}
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
		}

		pageCount++
		e.logger.Printf("[Enumerator] Page %d: %d videos total", pageCount, len(videoIDs))

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}

		// Inter-page pacing.
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return videoIDs, nil
}
