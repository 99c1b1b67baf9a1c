package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/vocabox/internal/model"
)

// ImportConfig describes a spreadsheet import.
//
// Rows are either "chapter, lt, tl" or "id, chapter, lt, tl". Rows without
// an id get sequential numeric ids starting at FirstID.
type ImportConfig struct {
	Path       string
	Sheet      string // xlsx only; empty means the first sheet
	SkipHeader bool
	FirstID    int
}

// ImportResult holds the parsed items and per-row problems.
type ImportResult struct {
	Items   []model.VocabItem
	Skipped int
	Errors  []string
}

// Import reads items from an .xlsx or .csv file.
func Import(cfg ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(cfg.Path)); ext {
	case ".csv":
		rows, err = readCSV(cfg.Path)
	case ".xlsx", ".xlsm":
		rows, err = readExcel(cfg.Path, cfg.Sheet)
	default:
		return nil, fmt.Errorf("unsupported import format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if cfg.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	return convertRows(rows, cfg.FirstID, 1+boolInt(cfg.SkipHeader)), nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			_ = cerr
		}
	}()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, row)
	}
}

func convertRows(rows [][]string, firstID, firstLine int) *ImportResult {
	if firstID <= 0 {
		firstID = 1
	}
	result := &ImportResult{}
	seen := map[string]struct{}{}
	explicit := explicitIDs(rows)
	nextID := firstID
	for i, row := range rows {
		line := firstLine + i
		cells := trimCells(row)
		if len(cells) == 0 {
			result.Skipped++
			continue
		}
		item, hasID, err := parseRow(cells)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if !hasID {
			for {
				if _, taken := explicit[strconv.Itoa(nextID)]; !taken {
					break
				}
				nextID++
			}
			item.ID = strconv.Itoa(nextID)
			nextID++
		}
		if _, ok := seen[item.ID]; ok {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: duplicate id %q", line, item.ID))
			continue
		}
		seen[item.ID] = struct{}{}
		result.Items = append(result.Items, item)
	}
	return result
}

// explicitIDs collects the ids written in the sheet so generated ids avoid them.
func explicitIDs(rows [][]string) map[string]struct{} {
	ids := map[string]struct{}{}
	for _, row := range rows {
		cells := trimCells(row)
		if len(cells) == 4 && cells[0] != "" {
			ids[cells[0]] = struct{}{}
		}
	}
	return ids
}

func parseRow(cells []string) (model.VocabItem, bool, error) {
	var item model.VocabItem
	hasID := false
	switch len(cells) {
	case 3:
	case 4:
		item.ID = cells[0]
		hasID = item.ID != ""
		cells = cells[1:]
	default:
		return item, false, fmt.Errorf("expected 3 or 4 columns, got %d", len(cells))
	}
	chapter, err := strconv.Atoi(cells[0])
	if err != nil {
		return item, false, fmt.Errorf("invalid chapter %q", cells[0])
	}
	if cells[1] == "" || cells[2] == "" {
		return item, false, fmt.Errorf("both texts are required")
	}
	item.Chapter = chapter
	item.TextA = cells[1]
	item.TextB = cells[2]
	return item, hasID, nil
}

// trimCells trims every cell and drops trailing empty cells.
func trimCells(row []string) []string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.TrimSpace(c)
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
