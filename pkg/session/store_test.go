package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/sandbox"
	"github.com/sameehj/junior/pkg/tool"
)

func sampleRecord(ts time.Time) *Record {
	content := "hi"
	return &Record{
		ID:           "11111111-2222-3333-4444-555555555555",
		Timestamp:    ts,
		Model:        "test-model",
		SystemPrompt: "system",
		UserPrompt:   "make notes",
		RawResponse:  `{"explanation":"ok","actions":[]}`,
		Plan:         &plan.Plan{Explanation: "ok"},
		Results: []tool.Result{
			{Index: 0, Action: plan.CreateFile{Path: "notes.md", Content: &content}, Status: tool.StatusSuccess, Detail: "created notes.md (2 bytes)"},
			{Index: 1, Action: plan.MoveFile{FromPath: "a", ToPath: "../b"}, Status: tool.StatusFailure, Detail: "path outside sandbox",
				Err: &sandbox.PathError{Path: "../b", Kind: sandbox.ErrOutsideSandbox}},
			{Index: 2, Action: plan.ListDir{Path: "."}, Status: tool.StatusSuccess, Entries: []string{"a", "b"}},
		},
	}
}

func TestStoreRecordWritesTranscript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	store := NewStore(dir)
	ts := time.Unix(1700000000, 0)

	path, err := store.Record(sampleRecord(ts))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session-1700000000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"timestamp", "system_prompt", "user_prompt", "raw_response", "explanation", "actions"} {
		assert.Contains(t, raw, key)
	}

	tr, err := store.Load("session-1700000000.json")
	require.NoError(t, err)
	assert.Equal(t, "2023-11-14T22:13:20Z", tr.Timestamp)
	require.Len(t, tr.Actions, 3)
	assert.Equal(t, ActionEntry{
		ActionType: "create_file", Path: "notes.md", Content: tr.Actions[0].Content,
		Status: "success", Detail: "created notes.md (2 bytes)",
	}, tr.Actions[0])
	require.NotNil(t, tr.Actions[0].Content)
	assert.Equal(t, "hi", *tr.Actions[0].Content)
	assert.Equal(t, "failure", tr.Actions[1].Status)
	assert.Equal(t, "../b", tr.Actions[1].ToPath)
	assert.Equal(t, "a\nb", tr.Actions[2].Output)
}

func TestStoreRecordNeverOverwrites(t *testing.T) {
	t.Logf("a second record with the same timestamp fails instead of clobbering")
	dir := t.TempDir()
	ts := time.Unix(1700000000, 0)
	require.NoError(t, WriteRecord(dir, sampleRecord(ts)))

	err := WriteRecord(dir, &Record{Timestamp: ts})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecord))

	tr, err := NewStore(dir).Load("session-1700000000")
	require.NoError(t, err)
	assert.Equal(t, "make notes", tr.UserPrompt)
}

func TestStoreRecordUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := WriteRecord(filepath.Join(blocker, "history"), sampleRecord(time.Now()))
	assert.ErrorIs(t, err, ErrRecord)
}

func TestTranscriptParseFailure(t *testing.T) {
	rec := &Record{
		Timestamp:   time.Unix(0, 0),
		RawResponse: "not json",
		ParseError:  errors.New("malformed response"),
	}
	tr := rec.Transcript()
	assert.Equal(t, "malformed response", tr.ParseError)
	assert.Empty(t, tr.Explanation)
	assert.NotNil(t, tr.Actions)
}

func TestStoreListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	for _, secs := range []int64{100, 300, 200} {
		_, err := store.Record(&Record{Timestamp: time.Unix(secs, 0)})
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	entries, err := store.List()
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"session-300.json", "session-200.json", "session-100.json"}, names)

	empty, err := NewStore(filepath.Join(dir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStoreLoadRejectsTraversal(t *testing.T) {
	_, err := NewStore(t.TempDir()).Load("../session-1.json")
	assert.Error(t, err)
}
