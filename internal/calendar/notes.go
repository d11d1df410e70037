package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	notesFilePermissions = 0o644
	backupSuffix         = ".bak"
	tmpSuffix            = ".tmp"
)

// Note is the free-text annotation attached to a date
type Note struct {
	Date Date
	Text string
}

// noteRecord is the on-disk shape of a note. Unknown fields are ignored on read.
type noteRecord struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Day   int    `json:"day"`
	Text  string `json:"text"`
}

// NoteStore keeps at most one note per date and persists them to a JSON file
type NoteStore struct {
	path  string
	notes map[Date]Note
	dirty bool
	// guarded is set when the file exists but could not be loaded and no copy of it
	// was kept; Save then leaves the file alone until the notes are changed
	guarded bool
	logger  *zap.Logger
}

// NewNoteStore creates an empty store bound to the file path
func NewNoteStore(path string, logger *zap.Logger) *NoteStore {
	return &NoteStore{
		path:   path,
		notes:  make(map[Date]Note),
		logger: logger,
	}
}

// Path returns the backing file path
func (s *NoteStore) Path() string {
	return s.path
}

// Load replaces the in-memory notes with the file contents.
// A missing file yields an empty store. An unreadable or malformed file also leaves
// the store empty, and the returned error wraps ErrStorageUnavailable. The file is
// moved or copied to the .bak path first; when that fails too, Save will not
// overwrite it until the notes are changed.
func (s *NoteStore) Load() error {
	s.notes = make(map[Date]Note)
	s.dirty = false
	s.guarded = false

	backup := s.path + backupSuffix

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - will be created on first save
			s.logger.Info("Notes file not found, starting empty", zap.String("file", s.path))
			return nil
		}
		if rerr := os.Rename(s.path, backup); rerr != nil {
			s.logger.Warn("Failed to move unreadable notes file aside", zap.Error(rerr))
			s.guarded = true
			return fmt.Errorf("%w: failed to read notes file: %v", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: failed to read notes file %s (moved to %s): %v",
			ErrStorageUnavailable, s.path, backup, err)
	}

	notes, err := decodeNotes(data)
	if err != nil {
		if werr := os.WriteFile(backup, data, notesFilePermissions); werr != nil {
			s.logger.Warn("Failed to back up unreadable notes file", zap.Error(werr))
			s.guarded = true
			return fmt.Errorf("%w: failed to parse notes file %s: %v", ErrStorageUnavailable, s.path, err)
		}
		return fmt.Errorf("%w: failed to parse notes file %s (copy kept in %s): %v",
			ErrStorageUnavailable, s.path, backup, err)
	}

	for _, n := range notes {
		if _, dup := s.notes[n.Date]; dup {
			s.logger.Warn("Duplicate note date in file, keeping the later record",
				zap.String("date", n.Date.String()))
		}
		s.notes[n.Date] = n
	}

	s.logger.Info("Notes loaded",
		zap.String("file", s.path),
		zap.Int("count", len(s.notes)))

	return nil
}

func decodeNotes(data []byte) ([]Note, error) {
	var records []noteRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(records))
	for i, rec := range records {
		if err := ValidateDate(rec.Year, rec.Month, rec.Day); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if strings.TrimSpace(rec.Text) == "" {
			return nil, fmt.Errorf("record %d: empty text", i)
		}
		notes = append(notes, Note{
			Date: Date{Year: rec.Year, Month: time.Month(rec.Month), Day: rec.Day},
			Text: rec.Text,
		})
	}
	return notes, nil
}

func encodeNotes(notes []Note) ([]byte, error) {
	records := make([]noteRecord, len(notes))
	for i, n := range notes {
		records[i] = noteRecord{
			Year:  n.Date.Year,
			Month: int(n.Date.Month),
			Day:   n.Date.Day,
			Text:  n.Text,
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

// Get returns the note on the date
func (s *NoteStore) Get(d Date) (Note, bool) {
	n, ok := s.notes[d]
	return n, ok
}

// NotesOn returns the notes on the date; with one note per date it has at most one element
func (s *NoteStore) NotesOn(d Date) []Note {
	if n, ok := s.notes[d]; ok {
		return []Note{n}
	}
	return nil
}

// Has reports whether a note exists on the date
func (s *NoteStore) Has(d Date) bool {
	_, ok := s.notes[d]
	return ok
}

// All returns every note ordered by date
func (s *NoteStore) All() []Note {
	notes := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Date.Before(notes[j].Date)
	})
	return notes
}

// Len returns the number of notes
func (s *NoteStore) Len() int {
	return len(s.notes)
}

// Upsert sets the note text on the date, replacing any existing note.
// Confirmation before replacing is the caller's job. Dates the file format cannot
// hold are rejected with ErrInvalidDate and leave the store unchanged.
func (s *NoteStore) Upsert(d Date, text string) error {
	if err := ValidateDate(d.Year, int(d.Month), d.Day); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: note text is empty", ErrInvalidArgument)
	}

	s.notes[d] = Note{Date: d, Text: text}
	s.dirty = true
	return nil
}

// Delete removes the note on the date. index is the 1-based position among the notes
// of that date; 0 is accepted as an alias of the only note.
func (s *NoteStore) Delete(d Date, index int) error {
	if _, ok := s.notes[d]; !ok {
		return fmt.Errorf("%w: no note on %s", ErrNotFound, d)
	}
	if index != 0 && index != 1 {
		return fmt.Errorf("%w: no note #%d on %s", ErrNotFound, index, d)
	}

	delete(s.notes, d)
	s.dirty = true
	return nil
}

// Dirty reports in-memory changes that have not reached the file yet
func (s *NoteStore) Dirty() bool {
	return s.dirty
}

// Guarded reports that the file failed to load and is protected from being overwritten
func (s *NoteStore) Guarded() bool {
	return s.guarded
}

// Save writes all notes to the file via a temp file and rename, so a completed
// save always leaves a valid file. On failure the store stays dirty.
func (s *NoteStore) Save() error {
	if s.guarded && !s.dirty {
		s.logger.Info("Notes file failed to load and nothing changed, leaving it untouched",
			zap.String("file", s.path))
		return nil
	}

	data, err := encodeNotes(s.All())
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notes: %v", ErrStorageUnavailable, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: failed to create notes directory: %v", ErrStorageUnavailable, err)
		}
	}

	tmpFile := s.path + tmpSuffix
	if err := os.WriteFile(tmpFile, data, notesFilePermissions); err != nil {
		return fmt.Errorf("%w: failed to write notes file: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("%w: failed to replace notes file: %v", ErrStorageUnavailable, err)
	}

	s.dirty = false
	s.guarded = false
	s.logger.Debug("Notes saved",
		zap.String("file", s.path),
		zap.Int("count", len(s.notes)))

	return nil
}
