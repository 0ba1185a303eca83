// Package excel imports word-bank content from spreadsheet files, the
// usual way learners arrive with existing vocabulary lists.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// ImportConfig describes where word fields live in the source file.
type ImportConfig struct {
	FilePath          string // path to the XLSX or CSV file
	TermColumn        string // column with the term being learned
	TranslationColumn string // column with the translation
	TopicColumn       string // column with the topic
	DifficultyColumn  string // column with the 1-5 difficulty
	NotesColumn       string // column with free-form notes
	SheetName         string // sheet to read, XLSX only
	StartRow          int    // 1-based first data row
	DefaultTopic      string // topic for rows that don't carry one
}

// DefaultImportConfig maps the expected layout: term, translation, topic,
// difficulty, notes in columns A-E with a header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TermColumn:        "A",
		TranslationColumn: "B",
		TopicColumn:       "C",
		DifficultyColumn:  "D",
		NotesColumn:       "E",
		SheetName:         "Sheet1",
		StartRow:          2,
		DefaultTopic:      "general",
	}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWords reads the configured file into the word bank. The format is
// picked by extension: .csv parses as CSV, anything else as XLSX. Rows
// that fail validation are recorded in the result and do not abort the
// run; re-importing a file updates words in place without changing their
// ids, so scheduler history stays attached.
func ImportWords(bank storage.WordBank, config ImportConfig) (*ImportResult, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return importFromCSV(bank, config)
	}
	return importFromExcel(bank, config)
}

func importFromExcel(bank storage.WordBank, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %v", config.SheetName, err)
	}

	result := &ImportResult{}
	topic := config.DefaultTopic
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		processRow(bank, config, row, rowNum, &topic, result)
	}
	return result, nil
}

func importFromCSV(bank storage.WordBank, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // allow ragged rows
	reader.LazyQuotes = true

	result := &ImportResult{}
	topic := config.DefaultTopic
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		processRow(bank, config, row, rowNum, &topic, result)
	}
	return result, nil
}

// processRow imports one data row. A row with only its first cell filled
// is a topic header: it switches the topic for the rows after it, the
// common layout of hand-maintained vocabulary sheets.
func processRow(bank storage.WordBank, config ImportConfig, row []string, rowNum int, topic *string, result *ImportResult) {
	if isBlank(row) {
		result.Skipped++
		return
	}
	if header, ok := topicHeader(row); ok {
		*topic = header
		result.Skipped++
		return
	}

	result.TotalProcessed++

	word := models.Word{
		ID:          uuid.NewString(),
		Term:        cleanTerm(cell(row, config.TermColumn)),
		Translation: strings.TrimSpace(cell(row, config.TranslationColumn)),
		Topic:       strings.TrimSpace(cell(row, config.TopicColumn)),
		Difficulty:  parseDifficulty(cell(row, config.DifficultyColumn)),
		Notes:       strings.TrimSpace(cell(row, config.NotesColumn)),
	}
	if word.Topic == "" {
		word.Topic = *topic
	}

	if word.Term == "" || word.Translation == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: term and translation are required", rowNum))
		return
	}

	mintedID := word.ID
	if err := bank.UpsertWord(&word); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}
	// UpsertWord swaps in the stored id when the word already existed.
	if word.ID == mintedID {
		result.Created++
	} else {
		result.Updated++
	}
}

// cell returns the row value at the given spreadsheet column letter, or ""
// when the row is too short.
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// columnToIndex converts a column letter ("A", "AB") to a 0-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		c := column[i]
		if c < 'A' || c > 'Z' {
			return -1
		}
		index = index*26 + int(c-'A'+1)
	}
	return index - 1
}

// cleanTerm strips trailing parentheticals like "go (went, gone)".
func cleanTerm(term string) string {
	if i := strings.Index(term, "("); i > 0 {
		term = term[:i]
	}
	return strings.TrimSpace(term)
}

// topicHeader reports whether the row is a topic marker: content in the
// first cell and nothing in the rest.
func topicHeader(row []string) (string, bool) {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return "", false
	}
	for _, v := range row[1:] {
		if strings.TrimSpace(v) != "" {
			return "", false
		}
	}
	return strings.Trim(strings.TrimSpace(row[0]), "\""), true
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseDifficulty parses a 1-5 difficulty, defaulting to 3 and clamping
// out-of-range values.
func parseDifficulty(s string) int {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 3
	}
	if val < 1 {
		return 1
	}
	if val > 5 {
		return 5
	}
	return val
}
