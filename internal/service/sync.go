package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/youtube/v3"

	"ytcommentsync/internal/model"
	"ytcommentsync/internal/repository"
	yt "ytcommentsync/internal/youtube"
)

// CredentialProvider supplies a valid token source per monitored channel.
// A dead or missing grant surfaces as model.ErrReauthorizationRequired.
type CredentialProvider interface {
	TokenSource(ctx context.Context, ch model.Channel) (oauth2.TokenSource, error)
}

// YouTubeClient is the per-channel remote API surface the engine consumes.
type YouTubeClient interface {
	ChannelInfo(ctx context.Context) (model.ChannelInfo, error)
	ListVideoIDs(ctx context.Context, uploadsPlaylistID string) ([]string, error)
	ListCommentThreads(ctx context.Context, videoID string) []*youtube.CommentThread
}

// ClientFactory builds an authorized client from a channel's token source.
type ClientFactory func(ctx context.Context, ts oauth2.TokenSource) (YouTubeClient, error)

// Notifier relays one newly stored comment. Implementations log their own
// failures; dispatch is never fatal to the sync loop.
type Notifier interface {
	NotifyNewComment(ctx context.Context, c model.Comment)
}

// SnapshotWriter records a raw comment thread for the audit trail.
type SnapshotWriter interface {
	Write(thread *youtube.CommentThread)
}

// Syncer drives one sync cycle: for every configured channel it obtains
// credentials, enumerates the uploads playlist and, per video, harvests,
// persists and dispatches comments. Channels, videos and pages are all
// processed sequentially to respect quota budgets and keep the store
// single-writer.
type Syncer struct {
	channels  []model.Channel
	creds     CredentialProvider
	newClient ClientFactory
	store     repository.CommentRepository
	notifier  Notifier       // nil disables dispatch
	snapshots SnapshotWriter // nil disables the audit trail
	logger    *log.Logger
}

func NewSyncer(
	channels []model.Channel,
	creds CredentialProvider,
	newClient ClientFactory,
	store repository.CommentRepository,
	notifier Notifier,
	snapshots SnapshotWriter,
	logger *log.Logger,
) *Syncer {
	return &Syncer{
		channels:  channels,
		creds:     creds,
		newClient: newClient,
		store:     store,
		notifier:  notifier,
		snapshots: snapshots,
		logger:    logger,
	}
}

// RunCycle performs one full pass over all configured channels. A channel
// failure aborts that channel only; the cycle always attempts every channel.
func (s *Syncer) RunCycle(ctx context.Context) []model.ChannelReport {
	runID := uuid.NewString()
	s.logger.Printf("[Sync] Cycle %s started (%d channels)", runID, len(s.channels))

	reports := make([]model.ChannelReport, 0, len(s.channels))
	for _, ch := range s.channels {
		reports = append(reports, s.syncChannel(ctx, runID, ch))
	}

	s.logger.Printf("[Sync] Cycle %s finished", runID)
	return reports
}

func (s *Syncer) syncChannel(ctx context.Context, runID string, ch model.Channel) model.ChannelReport {
	report := model.ChannelReport{
		RunID:     runID,
		Channel:   ch.Name,
		State:     model.StateIdle,
		StartedAt: time.Now(),
	}

	abort := func(err error) model.ChannelReport {
		report.State = model.StateAborted
		report.LastError = err.Error()
		report.FinishedAt = time.Now()
		s.logger.Printf("[Sync] Channel %q aborted: %v", report.Channel, err)
		return report
	}

	ts, err := s.creds.TokenSource(ctx, ch)
	if err != nil {
		return abort(fmt.Errorf("obtain credentials: %w", err))
	}
	report.State = model.StateCredentials

	client, err := s.newClient(ctx, ts)
	if err != nil {
		return abort(fmt.Errorf("build api client: %w", err))
	}

	info, err := client.ChannelInfo(ctx)
	if err != nil {
		return abort(fmt.Errorf("resolve channel info: %w", err))
	}

	channelName := ch.Name
	if channelName == "" {
		channelName = info.Title
	}
	report.Channel = channelName

	uploadsID := ch.UploadsPlaylistID
	if uploadsID == "" {
		uploadsID = info.UploadsPlaylistID
	}

	s.logger.Printf("[Sync] Updating comments for channel [ %s ]", channelName)

	report.State = model.StateEnumerating
	videoIDs, err := client.ListVideoIDs(ctx, uploadsID)
	if err != nil {
		return abort(fmt.Errorf("enumerate videos: %w", err))
	}
	report.VideosTotal = len(videoIDs)

	for i, videoID := range videoIDs {
		videoLabel := fmt.Sprintf("[ %s | %s | %d/%d ]", channelName, videoID, i+1, len(videoIDs))
		s.logger.Printf("[Sync] Updating comments for video %s", videoLabel)

		if err := s.syncVideo(ctx, client, channelName, videoID, &report); err != nil {
			// A single video never takes the channel down.
			report.VideosFailed++
			s.logger.Printf("[Sync] Failed to update comments for %s: %v", videoLabel, err)
		}
	}

	report.State = model.StateDone
	report.FinishedAt = time.Now()
	s.logger.Printf("[Sync] Finished channel [ %s ]: %d new comments across %d videos",
		channelName, report.NewComments, report.VideosTotal)
	return report
}

func (s *Syncer) syncVideo(ctx context.Context, client YouTubeClient, channelName, videoID string, report *model.ChannelReport) error {
	report.State = model.StateHarvesting
	threads := client.ListCommentThreads(ctx, videoID)

	if s.snapshots != nil {
		for _, thread := range threads {
			s.snapshots.Write(thread)
		}
	}

	records := yt.Flatten(threads, channelName, s.logger)
	report.CommentsSeen += len(records)
	if len(records) == 0 {
		return nil
	}

	report.State = model.StatePersisting
	newlyStored, err := s.store.InsertNewBatch(ctx, records)
	if err != nil {
		return fmt.Errorf("persist batch for video %s: %w", videoID, err)
	}
	report.NewComments += len(newlyStored)

	if s.notifier != nil && len(newlyStored) > 0 {
		report.State = model.StateDispatching
		for _, c := range newlyStored {
			s.notifier.NotifyNewComment(ctx, c)
		}
	}

	return nil
}
