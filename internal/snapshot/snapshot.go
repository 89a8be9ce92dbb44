package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/api/youtube/v3"
)

// Writer keeps a per-comment JSON audit trail on disk: one file per
// (channel, video, comment, updated-date) tuple, rewritten only when the
// replies substructure actually changed. Sync correctness never depends on
// the trail, so every failure is logged and swallowed.
type Writer struct {
	dir    string
	logger *log.Logger
}

func NewWriter(dir string, logger *log.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Write persists the raw thread if its replies differ from the last snapshot.
func (w *Writer) Write(thread *youtube.CommentThread) {
	if thread == nil || thread.Snippet == nil || thread.Snippet.TopLevelComment == nil ||
		thread.Snippet.TopLevelComment.Snippet == nil {
		w.logger.Printf("[Snapshot] Thread missing expected fields, skipping")
		return
	}

	path, err := w.snapshotPath(thread)
	if err != nil {
		w.logger.Printf("[Snapshot] Cannot build path for thread %s: %v", thread.Id, err)
		return
	}

	if !w.repliesChanged(path, thread) {
		return
	}

	data, err := json.MarshalIndent(thread, "", "    ")
	if err != nil {
		w.logger.Printf("[Snapshot] Cannot encode thread %s: %v", thread.Id, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		w.logger.Printf("[Snapshot] Cannot write %s: %v", path, err)
	}
}

func (w *Writer) snapshotPath(thread *youtube.CommentThread) (string, error) {
	channelID := thread.Snippet.ChannelId
	videoID := thread.Snippet.VideoId
	updatedAt := thread.Snippet.TopLevelComment.Snippet.UpdatedAt

	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return "", fmt.Errorf("parse updated date %q: %w", updatedAt, err)
	}

	folder := filepath.Join(w.dir, channelID)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}

	name := fmt.Sprintf("%s - %s - %s - %s.json",
		channelID, videoID, thread.Id, t.Format("2006-01-02 15-04-05"))
	return filepath.Join(folder, name), nil
}

// repliesChanged compares the replies substructure against the existing
// snapshot. A missing or unreadable snapshot counts as changed.
func (w *Writer) repliesChanged(path string, thread *youtube.CommentThread) bool {
	past, err := os.ReadFile(path)
	if err != nil {
		return true
	}

	var pastThread youtube.CommentThread
	if err := json.Unmarshal(past, &pastThread); err != nil {
		w.logger.Printf("[Snapshot] Cannot decode existing snapshot %s: %v", path, err)
		return true
	}

	pastReplies, err := json.Marshal(pastThread.Replies)
	if err != nil {
		return true
	}
	currentReplies, err := json.Marshal(thread.Replies)
	if err != nil {
		return true
	}

	return !bytes.Equal(pastReplies, currentReplies)
}
