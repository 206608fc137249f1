package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/comforterslodge/lodge/internal/audit"
	"github.com/comforterslodge/lodge/internal/config"
	"github.com/comforterslodge/lodge/internal/database"
	"github.com/comforterslodge/lodge/internal/database/devotionals"
	"github.com/comforterslodge/lodge/internal/database/hymns"
	"github.com/comforterslodge/lodge/internal/database/imports"
	"github.com/comforterslodge/lodge/internal/database/lessons"
	"github.com/comforterslodge/lodge/internal/entities"
	"github.com/comforterslodge/lodge/internal/parsers"
	"github.com/comforterslodge/lodge/internal/services"
)

// ImportCommand loads a TSV export of lessons, devotionals or hymns into the
// content store.
type ImportCommand struct {
	Type         string
	FilePath     string
	DatabasePath string
	AuditDir     string
	DryRun       bool
	Verbose      bool

	kind parsers.Kind
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.Type, "type", "", "Content type to import: LESSON, DEVOTIONAL or HYMN (required)")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to the TSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.AuditDir, "audit-dir", config.DefaultAuditDir, "Directory for archiving the imported file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and report without writing to the database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -type <kind> -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a TSV export of lessons, devotionals or hymns into the content store.\n\n")
		fmt.Fprintf(os.Stderr, "Rows insert atomically: one malformed row rejects the whole file. Every\n")
		fmt.Fprintf(os.Stderr, "import records an event in the import log and archives the raw file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Preview a hymnal import:\n")
		fmt.Fprintf(os.Stderr, "  %s import -type HYMN -file hymns.tsv -dry-run -verbose\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Load lessons into a specific database file:\n")
		fmt.Fprintf(os.Stderr, "  %s import -type LESSON -file lessons.tsv -db ./lodge.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Type == "" {
		return fmt.Errorf("required flag -type not provided")
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	kind, err := parsers.KindFromString(cmd.Type)
	if err != nil {
		return err
	}
	cmd.kind = kind

	return nil
}

func (cmd *ImportCommand) Run() error {
	fmt.Println("TSV Import")
	fmt.Println("==========")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	if _, err := os.Stat(cmd.FilePath); os.IsNotExist(err) {
		return fmt.Errorf("TSV file not found: %s", cmd.FilePath)
	}

	fmt.Printf("File: %s\n", cmd.FilePath)
	fmt.Printf("Type: %s\n", cmd.kind)

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read TSV file: %w", err)
	}

	fmt.Println("\nParsing TSV...")

	var (
		lessonRows     []parsers.LessonRow
		devotionalRows []parsers.DevotionalRow
		hymnRows       []parsers.HymnRow
		rowCount       int
	)

	switch cmd.kind {
	case parsers.KindLesson:
		lessonRows, err = parsers.ParseLessons(data)
		rowCount = len(lessonRows)
	case parsers.KindDevotional:
		devotionalRows, err = parsers.ParseDevotionals(data)
		rowCount = len(devotionalRows)
	case parsers.KindHymn:
		hymnRows, err = parsers.ParseHymns(data)
		rowCount = len(hymnRows)
	}
	if err != nil {
		return fmt.Errorf("failed to parse TSV: %w", err)
	}

	if rowCount == 0 {
		fmt.Println("No data rows found in TSV file")
		return nil
	}

	fmt.Printf("Parsed %d %s rows\n", rowCount, strings.ToLower(string(cmd.kind)))

	if cmd.Verbose {
		fmt.Println("\n=== Rows Found ===")
		switch cmd.kind {
		case parsers.KindLesson:
			for i, r := range lessonRows {
				fmt.Printf("%d. \"%s\" (%s)\n", i+1, r.SeriesTitle, r.DatePosted.Format("2006-01-02"))
			}
		case parsers.KindDevotional:
			for i, r := range devotionalRows {
				fmt.Printf("%d. %s (%s)\n", i+1, r.Citation, r.DatePosted.Format("2006-01-02"))
			}
		case parsers.KindHymn:
			for i, r := range hymnRows {
				fmt.Printf("%d. #%d \"%s\" (%d verses)\n", i+1, r.HymnNumber, r.HymnTitle, len(r.Verses))
			}
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	// Convert database path to absolute
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Printf("\nSaving to database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(config.Database{Path: cmd.DatabasePath})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	importService := services.NewImportService(
		lessons.NewRepository(db.DB),
		devotionals.NewRepository(db.DB),
		hymns.NewRepository(db.DB),
		imports.NewRepository(db.DB),
		audit.NewArchiver(cmd.AuditDir),
	)

	upload := services.Upload{
		Filename: filepath.Base(cmd.FilePath),
		Data:     data,
		Origin:   entities.ImportOriginCLI,
	}

	fmt.Println("\nImporting rows...")

	switch cmd.kind {
	case parsers.KindLesson:
		_, err = importService.ImportLessons(lessonRows, upload)
	case parsers.KindDevotional:
		_, err = importService.ImportDevotionals(devotionalRows, upload)
	case parsers.KindHymn:
		_, err = importService.ImportHymns(hymnRows, upload)
	}
	if err != nil {
		return fmt.Errorf("import failed, no rows were written: %w", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Rows imported: %d\n", rowCount)

	fmt.Println("\nImport complete!")
	return nil
}
