package http

import (
	"github.com/comforterslodge/lodge/internal/entities"
)

// dateLayout is the calendar-date format used on the wire.
const dateLayout = "2006-01-02"

// API output shapes. These are deliberate subsets of the stored records:
// server timestamps stay internal and posting dates flatten to YYYY-MM-DD.

// LessonOut is the public shape of one lesson.
type LessonOut struct {
	ID               uint   `json:"id"`
	SeriesTitle      string `json:"series_title"`
	PersonalQuestion string `json:"personal_question"`
	Theme            string `json:"theme"`
	OpeningHook      string `json:"opening_hook"`
	BiblicalQA       string `json:"biblical_qa"`
	Reflection       string `json:"reflection"`
	Story            string `json:"story"`
	Prayer           string `json:"prayer"`
	ActivityGuide    string `json:"activity_guide"`
	DatePosted       string `json:"date_posted"`
}

// DevotionalOut is the public shape of one devotional.
type DevotionalOut struct {
	ID           uint   `json:"id"`
	Citation     string `json:"citation"`
	VerseContent string `json:"verse_content"`
	DatePosted   string `json:"date_posted"`
}

// HymnOut is the public shape of one hymn.
type HymnOut struct {
	ID             uint     `json:"id"`
	HymnNumber     int      `json:"hymn_number"`
	HymnTitle      string   `json:"hymn_title"`
	Classification string   `json:"classification"`
	TuneRef        string   `json:"tune_ref"`
	CrossRef       string   `json:"cross_ref"`
	Scripture      string   `json:"scripture"`
	ChorusTitle    string   `json:"chorus_title"`
	Chorus         string   `json:"chorus"`
	Verses         []string `json:"verses"`
}

func serializeLesson(l *entities.Lesson) LessonOut {
	return LessonOut{
		ID:               l.ID,
		SeriesTitle:      l.SeriesTitle,
		PersonalQuestion: l.PersonalQuestion,
		Theme:            l.Theme,
		OpeningHook:      l.OpeningHook,
		BiblicalQA:       l.BiblicalQA,
		Reflection:       l.Reflection,
		Story:            l.Story,
		Prayer:           l.Prayer,
		ActivityGuide:    l.ActivityGuide,
		DatePosted:       l.DatePosted.Format(dateLayout),
	}
}

func serializeDevotional(d *entities.Devotional) DevotionalOut {
	return DevotionalOut{
		ID:           d.ID,
		Citation:     d.Citation,
		VerseContent: d.VerseContent,
		DatePosted:   d.DatePosted.Format(dateLayout),
	}
}

func serializeHymn(h *entities.Hymn) HymnOut {
	// A nil verse list still encodes as [].
	verses := []string(h.Verses)
	if verses == nil {
		verses = []string{}
	}
	return HymnOut{
		ID:             h.ID,
		HymnNumber:     h.HymnNumber,
		HymnTitle:      h.HymnTitle,
		Classification: h.Classification,
		TuneRef:        h.TuneRef,
		CrossRef:       h.CrossRef,
		Scripture:      h.Scripture,
		ChorusTitle:    h.ChorusTitle,
		Chorus:         h.Chorus,
		Verses:         verses,
	}
}

// The slice serializers always return non-nil slices so empty pages encode
// as [] rather than null.

func serializeLessons(lessons []entities.Lesson) []LessonOut {
	out := make([]LessonOut, 0, len(lessons))
	for i := range lessons {
		out = append(out, serializeLesson(&lessons[i]))
	}
	return out
}

func serializeDevotionals(devotionals []entities.Devotional) []DevotionalOut {
	out := make([]DevotionalOut, 0, len(devotionals))
	for i := range devotionals {
		out = append(out, serializeDevotional(&devotionals[i]))
	}
	return out
}

func serializeHymns(hymns []entities.Hymn) []HymnOut {
	out := make([]HymnOut, 0, len(hymns))
	for i := range hymns {
		out = append(out, serializeHymn(&hymns[i]))
	}
	return out
}
