package model

import "time"

// ChannelState is the position of a channel inside one sync cycle.
type ChannelState string

const (
	StateIdle        ChannelState = "idle"
	StateCredentials ChannelState = "credentials_obtained"
	StateEnumerating ChannelState = "enumerating"
	StateHarvesting  ChannelState = "harvesting"
	StatePersisting  ChannelState = "persisting"
	StateDispatching ChannelState = "dispatching"
	StateDone        ChannelState = "done"
	StateAborted     ChannelState = "aborted"
)

// ChannelReport is the outcome of one channel within a sync cycle. The
// status endpoint serves the latest report per channel.
type ChannelReport struct {
	RunID        string       `json:"run_id"`
	Channel      string       `json:"channel"`
	State        ChannelState `json:"state"`
	VideosTotal  int          `json:"videos_total"`
	VideosFailed int          `json:"videos_failed"`
	CommentsSeen int          `json:"comments_seen"`
	NewComments  int          `json:"new_comments"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	LastError    string       `json:"last_error,omitempty"`
}
