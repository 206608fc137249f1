package entities

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Placeholder values applied when a lesson is created without them.
const (
	DefaultSeriesTitle = "No Title"
	DefaultTheme       = "No Theme"
)

// Lesson is one day's study entry. Listing order is newest first:
// date_posted descending, creation time breaking ties.
type Lesson struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SeriesTitle      string    `gorm:"size:280" json:"series_title"`
	PersonalQuestion string    `gorm:"type:text" json:"personal_question"`
	Theme            string    `gorm:"type:text" json:"theme"`
	OpeningHook      string    `gorm:"size:280" json:"opening_hook"`
	BiblicalQA       string    `gorm:"type:text" json:"biblical_qa"`
	Reflection       string    `gorm:"type:text" json:"reflection"`
	Story            string    `gorm:"type:text" json:"story"`
	Prayer           string    `gorm:"type:text" json:"prayer"`
	ActivityGuide    string    `gorm:"type:text" json:"activity_guide"`
	DatePosted       time.Time `gorm:"index" json:"date_posted"`
	CreatedAt        time.Time `json:"created_at"`
}

// Devotional is a short daily scripture reading: a citation plus the verse text.
type Devotional struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Citation     string    `gorm:"size:200" json:"citation"`
	VerseContent string    `gorm:"type:text" json:"verse_content"`
	DatePosted   time.Time `gorm:"index" json:"date_posted"`
	CreatedAt    time.Time `json:"created_at"`
}

// Hymn is one hymnal entry. HymnNumber is unique across all hymns; Verses
// keeps the singing order, stored as a JSON array column.
type Hymn struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	HymnNumber     int                         `gorm:"uniqueIndex;not null" json:"hymn_number"`
	HymnTitle      string                      `gorm:"size:255" json:"hymn_title"`
	Classification string                      `gorm:"size:100" json:"classification"`
	TuneRef        string                      `gorm:"size:100" json:"tune_ref"`
	CrossRef       string                      `gorm:"size:255" json:"cross_ref"`
	Scripture      string                      `gorm:"size:255" json:"scripture"`
	ChorusTitle    string                      `gorm:"size:255" json:"chorus_title"`
	Chorus         string                      `gorm:"type:text" json:"chorus"`
	Verses         datatypes.JSONSlice[string] `json:"verses"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// BeforeCreate fills the placeholder title/theme and today's date so every
// create path (single, batch, CLI, seeding) gets the same defaults.
func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.SeriesTitle == "" {
		l.SeriesTitle = DefaultSeriesTitle
	}
	if l.Theme == "" {
		l.Theme = DefaultTheme
	}
	if l.DatePosted.IsZero() {
		l.DatePosted = Today()
	}
	return nil
}

func (d *Devotional) BeforeCreate(tx *gorm.DB) error {
	if d.DatePosted.IsZero() {
		d.DatePosted = Today()
	}
	return nil
}

// BeforeCreate normalizes a nil verse list to an empty JSON array so the
// column never stores SQL NULL.
func (h *Hymn) BeforeCreate(tx *gorm.DB) error {
	if h.Verses == nil {
		h.Verses = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Day truncates t to its calendar date at midnight UTC. date_posted values
// are always stored in this form so date comparisons are exact.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the server-local calendar date, normalized via Day.
func Today() time.Time {
	return Day(time.Now())
}

func (Lesson) TableName() string {
	return "lessons"
}

func (Devotional) TableName() string {
	return "devotionals"
}

func (Hymn) TableName() string {
	return "hymns"
}
