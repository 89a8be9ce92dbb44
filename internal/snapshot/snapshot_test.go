package snapshot

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/api/youtube/v3"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sampleThread(replies ...string) *youtube.CommentThread {
	thread := &youtube.CommentThread{
		Id: "thread-1",
		Snippet: &youtube.CommentThreadSnippet{
			ChannelId: "chan-1",
			VideoId:   "vid-1",
			TopLevelComment: &youtube.Comment{
				Id: "thread-1",
				Snippet: &youtube.CommentSnippet{
					TextDisplay: "hello",
					PublishedAt: "2024-01-31T12:00:00Z",
					UpdatedAt:   "2024-01-31T12:00:00Z",
				},
			},
		},
	}
	if len(replies) > 0 {
		thread.Replies = &youtube.CommentThreadReplies{}
		for _, text := range replies {
			thread.Replies.Comments = append(thread.Replies.Comments, &youtube.Comment{
				Snippet: &youtube.CommentSnippet{TextDisplay: text},
			})
		}
	}
	return thread
}

func snapshotFile(t *testing.T, dir string) string {
	t.Helper()
	return filepath.Join(dir, "chan-1", "chan-1 - vid-1 - thread-1 - 2024-01-31 12-00-00.json")
}

func TestWrite_CreatesSnapshot(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testLogger())

	w.Write(sampleThread("first reply"))

	data, err := os.ReadFile(snapshotFile(t, dir))
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	var stored youtube.CommentThread
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("snapshot is not valid json: %v", err)
	}
	if stored.Id != "thread-1" || len(stored.Replies.Comments) != 1 {
		t.Fatalf("unexpected snapshot content: %+v", stored)
	}
}

func TestWrite_UnchangedRepliesSkipRewrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testLogger())

	w.Write(sampleThread("first reply"))

	path := snapshotFile(t, dir)
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat snapshot: %v", err)
	}

	// Backdate the file so a rewrite would be visible in the mtime.
	if err := os.Chtimes(path, before.ModTime().Add(-1e9), before.ModTime().Add(-1e9)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	stamped, _ := os.Stat(path)

	w.Write(sampleThread("first reply"))

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat snapshot: %v", err)
	}
	if !after.ModTime().Equal(stamped.ModTime()) {
		t.Fatal("unchanged thread rewrote the snapshot")
	}
}

func TestWrite_ChangedRepliesRewrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testLogger())

	w.Write(sampleThread("first reply"))
	w.Write(sampleThread("first reply", "second reply"))

	data, err := os.ReadFile(snapshotFile(t, dir))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var stored youtube.CommentThread
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(stored.Replies.Comments) != 2 {
		t.Fatalf("expected rewritten snapshot with 2 replies, got %d", len(stored.Replies.Comments))
	}
}

func TestWrite_MalformedThreadIgnored(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testLogger())

	// Must not panic and must not create anything.
	w.Write(nil)
	w.Write(&youtube.CommentThread{Id: "no-snippet"})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no snapshots, found %d entries", len(entries))
	}
}

func TestWrite_EditedCommentGetsNewFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, testLogger())

	w.Write(sampleThread())

	edited := sampleThread()
	edited.Snippet.TopLevelComment.Snippet.UpdatedAt = "2024-02-01T09:30:00Z"
	w.Write(edited)

	entries, err := os.ReadDir(filepath.Join(dir, "chan-1"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected a distinct snapshot per updated date, got %d files", len(entries))
	}
}
