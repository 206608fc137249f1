// Package services holds the persistence half of bulk imports: batch
// insertion, raw-upload archiving and import-event bookkeeping shared by the
// JSON API, the admin upload form and the CLI.
package services

import (
	"log"

	"gorm.io/datatypes"

	"github.com/comforterslodge/lodge/internal/audit"
	"github.com/comforterslodge/lodge/internal/entities"
	"github.com/comforterslodge/lodge/internal/parsers"
)

// Upload describes the raw TSV behind one import attempt.
type Upload struct {
	Filename string
	Data     []byte
	Origin   entities.ImportOrigin
}

// The service only needs batch insertion from the content repositories, plus
// event recording.

type LessonBatchStore interface {
	CreateBatch([]*entities.Lesson) error
}

type DevotionalBatchStore interface {
	CreateBatch([]*entities.Devotional) error
}

type HymnBatchStore interface {
	CreateBatch([]*entities.Hymn) error
}

type ImportEventStore interface {
	Create(*entities.ImportEvent) error
}

// ImportService persists parsed TSV rows in one transaction per upload,
// archives the raw bytes and records an ImportEvent for every attempt.
// Archiving and event recording are best-effort relative to the insert
// transaction: once rows commit, bookkeeping failures are logged, never
// surfaced.
type ImportService struct {
	lessons     LessonBatchStore
	devotionals DevotionalBatchStore
	hymns       HymnBatchStore
	events      ImportEventStore
	archiver    *audit.Archiver
}

func NewImportService(lessons LessonBatchStore, devotionals DevotionalBatchStore, hymns HymnBatchStore, events ImportEventStore, archiver *audit.Archiver) *ImportService {
	return &ImportService{
		lessons:     lessons,
		devotionals: devotionals,
		hymns:       hymns,
		events:      events,
		archiver:    archiver,
	}
}

// ImportLessons inserts parsed lesson rows atomically: either every row
// commits or none do.
func (s *ImportService) ImportLessons(rows []parsers.LessonRow, upload Upload) ([]entities.Lesson, error) {
	batch := make([]*entities.Lesson, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, &entities.Lesson{
			SeriesTitle:      r.SeriesTitle,
			PersonalQuestion: r.PersonalQuestion,
			Theme:            r.Theme,
			OpeningHook:      r.OpeningHook,
			BiblicalQA:       r.BiblicalQA,
			Reflection:       r.Reflection,
			Story:            r.Story,
			Prayer:           r.Prayer,
			ActivityGuide:    r.ActivityGuide,
			DatePosted:       entities.Day(r.DatePosted),
		})
	}

	if err := s.lessons.CreateBatch(batch); err != nil {
		s.RecordFailure(parsers.KindLesson, upload, err)
		return nil, err
	}
	s.recordSuccess(parsers.KindLesson, upload, len(batch))
	return collect(batch), nil
}

// ImportDevotionals inserts parsed devotional rows atomically.
func (s *ImportService) ImportDevotionals(rows []parsers.DevotionalRow, upload Upload) ([]entities.Devotional, error) {
	batch := make([]*entities.Devotional, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, &entities.Devotional{
			Citation:     r.Citation,
			VerseContent: r.VerseContent,
			DatePosted:   entities.Day(r.DatePosted),
		})
	}

	if err := s.devotionals.CreateBatch(batch); err != nil {
		s.RecordFailure(parsers.KindDevotional, upload, err)
		return nil, err
	}
	s.recordSuccess(parsers.KindDevotional, upload, len(batch))
	return collect(batch), nil
}

// ImportHymns inserts parsed hymn rows atomically. A duplicate hymn_number
// anywhere in the batch rolls the whole upload back; the storage error is
// returned as-is so callers can distinguish the conflict.
func (s *ImportService) ImportHymns(rows []parsers.HymnRow, upload Upload) ([]entities.Hymn, error) {
	batch := make([]*entities.Hymn, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, &entities.Hymn{
			HymnNumber:     r.HymnNumber,
			HymnTitle:      r.HymnTitle,
			Classification: r.Classification,
			TuneRef:        r.TuneRef,
			CrossRef:       r.CrossRef,
			Scripture:      r.Scripture,
			ChorusTitle:    r.ChorusTitle,
			Chorus:         r.Chorus,
			Verses:         datatypes.JSONSlice[string](r.Verses),
		})
	}

	if err := s.hymns.CreateBatch(batch); err != nil {
		s.RecordFailure(parsers.KindHymn, upload, err)
		return nil, err
	}
	s.recordSuccess(parsers.KindHymn, upload, len(batch))
	return collect(batch), nil
}

// RecordFailure archives the upload and records a failed import event.
// Callers use this directly when parsing fails before any insert is
// attempted.
func (s *ImportService) RecordFailure(kind parsers.Kind, upload Upload, cause error) {
	s.recordEvent(&entities.ImportEvent{
		Kind:        string(kind),
		Filename:    upload.Filename,
		ArchivePath: s.archive(kind, upload),
		Status:      entities.ImportStatusFailed,
		ErrorMsg:    cause.Error(),
		Origin:      upload.Origin,
	})
}

func (s *ImportService) recordSuccess(kind parsers.Kind, upload Upload, rowCount int) {
	s.recordEvent(&entities.ImportEvent{
		Kind:        string(kind),
		Filename:    upload.Filename,
		ArchivePath: s.archive(kind, upload),
		RowCount:    rowCount,
		Status:      entities.ImportStatusCompleted,
		Origin:      upload.Origin,
	})
}

func (s *ImportService) recordEvent(event *entities.ImportEvent) {
	if err := s.events.Create(event); err != nil {
		log.Printf("Failed to record %s import event for %q: %v", event.Kind, event.Filename, err)
	}
}

func (s *ImportService) archive(kind parsers.Kind, upload Upload) string {
	if s.archiver == nil {
		return ""
	}
	path, err := s.archiver.SaveUpload(upload.Filename, upload.Data)
	if err != nil {
		log.Printf("Failed to archive %s upload %q: %v", kind, upload.Filename, err)
		return ""
	}
	return path
}

// collect flattens a pointer batch into the value slice handed back to
// controllers, IDs and defaults filled in by the insert.
func collect[T any](batch []*T) []T {
	out := make([]T, 0, len(batch))
	for _, item := range batch {
		out = append(out, *item)
	}
	return out
}
