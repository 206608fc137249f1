// Package parsers turns raw tab-separated uploads into validated, typed rows
// for the three content kinds. Parsing is a pure transformation: no storage,
// no HTTP, errors carry 1-indexed line numbers (header is line 1).
package parsers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind selects which table format a TSV payload is parsed as.
type Kind string

const (
	KindLesson     Kind = "LESSON"
	KindDevotional Kind = "DEVOTIONAL"
	KindHymn       Kind = "HYMN"
)

// KindFromString validates a content-type selector coming from a form field
// or CLI flag.
func KindFromString(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindLesson:
		return KindLesson, nil
	case KindDevotional:
		return KindDevotional, nil
	case KindHymn:
		return KindHymn, nil
	default:
		return "", errors.New("Invalid content type was provided. Use: LESSON, DEVOTIONAL, or HYMN.")
	}
}

// Required header columns per kind. Hymn tables additionally need one or
// more verse_* columns, checked separately so the error is distinct.
var (
	lessonColumns = []string{
		"series_title",
		"personal_question",
		"theme",
		"opening_hook",
		"biblical_qa",
		"reflection",
		"story",
		"prayer",
		"activity_guide",
		"date_posted",
	}

	devotionalColumns = []string{
		"citation",
		"verse_content",
		"date_posted",
	}

	hymnBaseColumns = []string{
		"hymn_number",
		"hymn_title",
		"classification",
		"tune_ref",
		"cross_ref",
		"scripture",
		"chorus_title",
		"chorus",
	}
)

const versePrefix = "verse_"

// Escape tokens are literal two-character sequences in the source text, not
// control characters. Listed longest-first so \r\n wins over \r.
var escapeReplacer = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n", `\r`, "\n", `\t`, "\t")

func unescape(s string) string {
	return escapeReplacer.Replace(s)
}

// LessonRow is one validated lesson data row, fields trimmed and the date
// already parsed.
type LessonRow struct {
	SeriesTitle      string
	PersonalQuestion string
	Theme            string
	OpeningHook      string
	BiblicalQA       string
	Reflection       string
	Story            string
	Prayer           string
	ActivityGuide    string
	DatePosted       time.Time
}

// DevotionalRow is one validated devotional data row.
type DevotionalRow struct {
	Citation     string
	VerseContent string
	DatePosted   time.Time
}

// HymnRow pairs a hymn's base fields with its verses folded from the
// verse_* columns in header order.
type HymnRow struct {
	HymnNumber     int
	HymnTitle      string
	Classification string
	TuneRef        string
	CrossRef       string
	Scripture      string
	ChorusTitle    string
	Chorus         string
	Verses         []string
}

// ParseLessons parses a LESSON TSV payload.
func ParseLessons(data []byte) ([]LessonRow, error) {
	return parseTable(data, lessonFormat{})
}

// ParseDevotionals parses a DEVOTIONAL TSV payload.
func ParseDevotionals(data []byte) ([]DevotionalRow, error) {
	return parseTable(data, devotionalFormat{})
}

// ParseHymns parses a HYMN TSV payload.
func ParseHymns(data []byte) ([]HymnRow, error) {
	return parseTable(data, hymnFormat{})
}

// rowFormat is the per-kind half of the parser: each content kind carries
// its own required-column set, header rule and row rule, so the shared table
// walk below never branches on a kind selector.
type rowFormat[T any] interface {
	requiredColumns() []string
	checkHeader(header []string) error
	parseRow(r row) (T, error)
}

// table holds the parsed header and a name->position index. Duplicate column
// names keep the last position, like a map-based reader would.
type table struct {
	header []string
	index  map[string]int
}

// row is one data record plus its 1-indexed line number for error messages.
// Line numbers count parsed records: the reader skips blank lines, so they
// do not consume a number.
type row struct {
	t      *table
	line   int
	fields []string
}

// value returns the trimmed field for a named column, or "" when the column
// is absent or the record is short.
func (r row) value(col string) string {
	idx, ok := r.t.index[col]
	if !ok {
		return ""
	}
	return r.at(idx)
}

// at returns the trimmed field at a header position, bounds-checked against
// short records.
func (r row) at(idx int) string {
	if idx < 0 || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r row) requireNonEmpty(cols []string) error {
	for _, c := range cols {
		if r.value(c) == "" {
			return fmt.Errorf("Row %d: '%s' is required.", r.line, c)
		}
	}
	return nil
}

func (r row) date(col string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", r.value(col))
	if err != nil {
		return time.Time{}, fmt.Errorf("Row %d: %s must be YYYY-MM-DD.", r.line, col)
	}
	return t, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errors.New("TSV must be valid UTF-8 text.")
	}
	return string(data), nil
}

func missingColumns(header, required []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range required {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// parseTable runs the shared header/row walk for one kind. All validation
// happens here; the caller receives either the full result set or the first
// error, never a partial batch.
func parseTable[T any](data []byte, f rowFormat[T]) ([]T, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1 // rows may be shorter than the header
	reader.LazyQuotes = true    // tolerate stray quotes in hand-made files

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("TSV appears to have no header row.")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	if missing := missingColumns(header, f.requiredColumns()); len(missing) > 0 {
		return nil, fmt.Errorf("TSV header missing columns: %v", missing)
	}
	if err := f.checkHeader(header); err != nil {
		return nil, err
	}

	t := &table{header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[h] = i
	}

	var rows []T
	line := 1 // header consumed
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("Row %d: malformed row: %v", line, err)
		}

		parsed, err := f.parseRow(row{t: t, line: line, fields: record})
		if err != nil {
			return nil, err
		}
		rows = append(rows, parsed)
	}

	if len(rows) == 0 {
		return nil, errors.New("TSV contains a header but no data rows.")
	}
	return rows, nil
}

type lessonFormat struct{}

func (lessonFormat) requiredColumns() []string { return lessonColumns }

func (lessonFormat) checkHeader(header []string) error { return nil }

func (lessonFormat) parseRow(r row) (LessonRow, error) {
	if err := r.requireNonEmpty(lessonColumns); err != nil {
		return LessonRow{}, err
	}
	date, err := r.date("date_posted")
	if err != nil {
		return LessonRow{}, err
	}
	return LessonRow{
		SeriesTitle:      r.value("series_title"),
		PersonalQuestion: r.value("personal_question"),
		Theme:            r.value("theme"),
		OpeningHook:      r.value("opening_hook"),
		BiblicalQA:       r.value("biblical_qa"),
		Reflection:       r.value("reflection"),
		Story:            r.value("story"),
		Prayer:           r.value("prayer"),
		ActivityGuide:    r.value("activity_guide"),
		DatePosted:       date,
	}, nil
}

type devotionalFormat struct{}

func (devotionalFormat) requiredColumns() []string { return devotionalColumns }

func (devotionalFormat) checkHeader(header []string) error { return nil }

func (devotionalFormat) parseRow(r row) (DevotionalRow, error) {
	if err := r.requireNonEmpty(devotionalColumns); err != nil {
		return DevotionalRow{}, err
	}
	date, err := r.date("date_posted")
	if err != nil {
		return DevotionalRow{}, err
	}
	return DevotionalRow{
		Citation:     r.value("citation"),
		VerseContent: r.value("verse_content"),
		DatePosted:   date,
	}, nil
}

type hymnFormat struct{}

func (hymnFormat) requiredColumns() []string { return hymnBaseColumns }

func (hymnFormat) checkHeader(header []string) error {
	for _, h := range header {
		if strings.HasPrefix(h, versePrefix) {
			return nil
		}
	}
	return errors.New("TSV header must include at least one 'verse_…' column.")
}

func (hymnFormat) parseRow(r row) (HymnRow, error) {
	if err := r.requireNonEmpty(hymnBaseColumns); err != nil {
		return HymnRow{}, err
	}

	number, err := strconv.Atoi(r.value("hymn_number"))
	if err != nil || number < 0 {
		return HymnRow{}, fmt.Errorf("Row %d: hymn_number must be a non-negative integer.", r.line)
	}

	// Verses fold in header-declared order; positional access keeps every
	// occurrence of a duplicated verse_ column. Empty cells and the literal
	// placeholder "-" are skipped.
	var verses []string
	for i, col := range r.t.header {
		if !strings.HasPrefix(col, versePrefix) {
			continue
		}
		v := r.at(i)
		if v == "" || v == "-" {
			continue
		}
		verses = append(verses, unescape(v))
	}
	if len(verses) == 0 {
		return HymnRow{}, fmt.Errorf("Row %d: at least one verse is required.", r.line)
	}

	return HymnRow{
		HymnNumber:     number,
		HymnTitle:      unescape(r.value("hymn_title")),
		Classification: unescape(r.value("classification")),
		TuneRef:        unescape(r.value("tune_ref")),
		CrossRef:       unescape(r.value("cross_ref")),
		Scripture:      unescape(r.value("scripture")),
		ChorusTitle:    unescape(r.value("chorus_title")),
		Chorus:         unescape(r.value("chorus")),
		Verses:         verses,
	}, nil
}
