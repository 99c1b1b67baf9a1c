package corpus

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/vocabox/internal/model"
)

func TestLoadAcceptsStringAndNumericIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.json")
	data := `{"words":[
		{"id":1,"chapter":2,"lt":"labas","tl":"hello"},
		{"id":"w-2","chapter":1,"lt":"ačiū","tl":"thanks"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	items, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []model.VocabItem{
		{ID: "1", Chapter: 2, TextA: "labas", TextB: "hello"},
		{ID: "w-2", Chapter: 1, TextA: "ačiū", TextB: "thanks"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestParseRejectsBadCorpora(t *testing.T) {
	tests := map[string]string{
		"empty":     `{"words":[]}`,
		"missing":   `{}`,
		"no id":     `{"words":[{"chapter":1,"lt":"a","tl":"b"}]}`,
		"duplicate": `{"words":[{"id":1,"chapter":1,"lt":"a","tl":"b"},{"id":"1","chapter":1,"lt":"c","tl":"d"}]}`,
		"bad id":    `{"words":[{"id":true,"chapter":1,"lt":"a","tl":"b"}]}`,
		"not json":  `words`,
	}
	for name, data := range tests {
		if _, err := Parse(strings.NewReader(data)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "vocab.json")
	items := []model.VocabItem{
		{ID: "1", Chapter: 1, TextA: "namas", TextB: "house"},
		{ID: "2", Chapter: 3, TextA: "upė", TextB: "river"},
	}
	if err := Write(path, items); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only vocab.json, got %d entries", len(entries))
	}
}

func TestChaptersAndInChapter(t *testing.T) {
	items := []model.VocabItem{
		{ID: "1", Chapter: 3}, {ID: "2", Chapter: 1}, {ID: "3", Chapter: 3}, {ID: "4", Chapter: 10},
	}
	if got := Chapters(items); !reflect.DeepEqual(got, []int{1, 3, 10}) {
		t.Fatalf("unexpected chapters %v", got)
	}
	pool := InChapter(items, 3)
	if len(pool) != 2 || pool[0].ID != "1" || pool[1].ID != "3" {
		t.Fatalf("unexpected pool %+v", pool)
	}
	if len(InChapter(items, 2)) != 0 {
		t.Fatalf("expected empty pool")
	}
}

func TestMergeAndNextID(t *testing.T) {
	base := []model.VocabItem{{ID: "1", TextA: "a"}, {ID: "7", TextA: "b"}, {ID: "x", TextA: "c"}}
	incoming := []model.VocabItem{{ID: "7", TextA: "B"}, {ID: "8", TextA: "d"}}
	got := Merge(base, incoming)
	want := []model.VocabItem{{ID: "1", TextA: "a"}, {ID: "7", TextA: "B"}, {ID: "x", TextA: "c"}, {ID: "8", TextA: "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected merge %+v", got)
	}
	if base[1].TextA != "b" {
		t.Fatalf("merge must not modify base")
	}
	if n := NextID(got); n != 9 {
		t.Fatalf("expected next id 9, got %d", n)
	}
	if n := NextID(nil); n != 1 {
		t.Fatalf("expected next id 1, got %d", n)
	}
}

func TestImportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	data := "chapter,lt,tl\n1,labas,hello\n\n2, ačiū , thanks\nx,bad,row\n1,only\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := Import(ImportConfig{Path: path, SkipHeader: true, FirstID: 5})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := []model.VocabItem{
		{ID: "5", Chapter: 1, TextA: "labas", TextB: "hello"},
		{ID: "6", Chapter: 2, TextA: "ačiū", TextB: "thanks"},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Fatalf("unexpected items %+v", res.Items)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "row 4:") {
		t.Fatalf("unexpected error line %q", res.Errors[0])
	}
}

func TestImportSkipsExplicitIDsWhenAssigning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	data := ",1,labas,hello\n,1,ačiū,thanks\n2,2,taip,yes\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := Import(ImportConfig{Path: path, FirstID: 1})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected row errors %v", res.Errors)
	}
	var ids []string
	for _, item := range res.Items {
		ids = append(ids, item.ID)
	}
	if !reflect.DeepEqual(ids, []string{"1", "3", "2"}) {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestImportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"id", "chapter", "lt", "tl"},
		{"a1", 1, "vanduo", "water"},
		{"", 2, "duona", "bread"},
		{"a1", 2, "dup", "dup"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	res, err := Import(ImportConfig{Path: path, SkipHeader: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := []model.VocabItem{
		{ID: "a1", Chapter: 1, TextA: "vanduo", TextB: "water"},
		{ID: "1", Chapter: 2, TextA: "duona", TextB: "bread"},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Fatalf("unexpected items %+v", res.Items)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "duplicate") {
		t.Fatalf("expected duplicate error, got %v", res.Errors)
	}

	if _, err := Import(ImportConfig{Path: path, Sheet: "Missing"}); err == nil {
		t.Fatalf("expected error for missing sheet")
	}
}

func TestImportUnsupportedFormat(t *testing.T) {
	if _, err := Import(ImportConfig{Path: "words.txt"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
