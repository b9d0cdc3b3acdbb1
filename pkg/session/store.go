// Package session persists one transcript file per invocation.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	filePrefix = "session-"
	fileSuffix = ".json"
)

// ErrRecord is returned when a transcript cannot be written.
var ErrRecord = errors.New("record transcript")

// RecordError wraps a transcript write failure. It never undoes executed actions.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrRecord, e.Path, e.Err)
}

func (e *RecordError) Is(target error) bool {
	return target == ErrRecord
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Store is a directory of transcript files.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Dir returns the history directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// FileName returns the transcript name for a timestamp.
func FileName(ts time.Time) string {
	return filePrefix + strconv.FormatInt(ts.Unix(), 10) + fileSuffix
}

// Record writes rec to a new file named after its timestamp and returns
// the file path. An existing file with the same name is an error; nothing
// is overwritten.
func (s *Store) Record(rec *Record) (string, error) {
	path := filepath.Join(s.baseDir, FileName(rec.Timestamp))
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return path, &RecordError{Path: path, Err: err}
	}
	data, err := json.MarshalIndent(rec.Transcript(), "", "  ")
	if err != nil {
		return path, &RecordError{Path: path, Err: err}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return path, &RecordError{Path: path, Err: err}
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return path, &RecordError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return path, &RecordError{Path: path, Err: err}
	}
	return path, nil
}

// WriteRecord writes rec into dir.
func WriteRecord(dir string, rec *Record) error {
	_, err := NewStore(dir).Record(rec)
	return err
}

// Entry is a transcript on disk.
type Entry struct {
	Name      string
	Path      string
	Timestamp time.Time
}

// List returns transcripts newest first. A missing directory is empty.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Entry
	for _, de := range dirEntries {
		ts, ok := parseName(de.Name())
		if !ok || de.IsDir() {
			continue
		}
		out = append(out, Entry{
			Name:      de.Name(),
			Path:      filepath.Join(s.baseDir, de.Name()),
			Timestamp: ts,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Load decodes the named transcript. name must be a bare file name.
func (s *Store) Load(name string) (*Transcript, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid transcript name: %q", name)
	}
	if !strings.HasSuffix(name, fileSuffix) {
		name += fileSuffix
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &t, nil
}

func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}
