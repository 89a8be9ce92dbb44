package youtube

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytcommentsync/internal/model"
)

// Client bundles the per-channel API surface the sync engine needs: channel
// identity resolution, video enumeration and comment harvesting. One Client
// wraps one authorized service, so one Client per monitored channel.
type Client struct {
	svc        *youtube.Service
	enumerator *Enumerator
	harvester  *Harvester
	logger     *log.Logger
}

// NewClient builds an authorized API client from a token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource, logger *log.Logger) (*Client, error) {
	svc, err := youtube.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return newClient(svc, logger), nil
}

func newClient(svc *youtube.Service, logger *log.Logger) *Client {
	return &Client{
		svc:        svc,
		enumerator: NewEnumerator(svc, logger),
		harvester:  NewHarvester(svc, logger),
		logger:     logger,
	}
}

// ChannelInfo resolves the identity of the channel the credentials belong to.
func (c *Client) ChannelInfo(ctx context.Context) (model.ChannelInfo, error) {
	resp, err := c.svc.Channels.
		List([]string{"id", "snippet", "contentDetails"}).
		Mine(true).
		Context(ctx).
		Do()
	if err != nil {
		return model.ChannelInfo{}, classifyError(err)
	}
	if len(resp.Items) == 0 {
		return model.ChannelInfo{}, fmt.Errorf("no channel found for these credentials")
	}

	ch := resp.Items[0]
	info := model.ChannelInfo{ID: ch.Id}
	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
	}
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		info.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
	}
	if info.UploadsPlaylistID == "" {
		return model.ChannelInfo{}, fmt.Errorf("channel %s has no uploads playlist", ch.Id)
	}

	return info, nil
}

// ListVideoIDs enumerates all video IDs in the uploads playlist, in page order.
func (c *Client) ListVideoIDs(ctx context.Context, uploadsPlaylistID string) ([]string, error) {
	return c.enumerator.ListVideoIDs(ctx, uploadsPlaylistID)
}

// ListCommentThreads harvests all comment threads for a video.
func (c *Client) ListCommentThreads(ctx context.Context, videoID string) []*youtube.CommentThread {
	return c.harvester.ListCommentThreads(ctx, videoID)
}
