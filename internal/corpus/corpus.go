// Package corpus loads and writes vocabulary corpora.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/vocabox/internal/model"
)

type fileCorpus struct {
	Words []fileWord `json:"words"`
}

type fileWord struct {
	ID      wordID `json:"id"`
	Chapter int    `json:"chapter"`
	LT      string `json:"lt"`
	TL      string `json:"tl"`
}

// wordID accepts both JSON strings and numbers.
type wordID string

func (id *wordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*id = wordID(n.String())
	return nil
}

// Load reads a vocab.json corpus from path.
func Load(path string) ([]model.VocabItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()
	return Parse(file)
}

// Parse decodes a corpus. Items without an id are rejected, as are
// duplicate ids.
func Parse(r io.Reader) ([]model.VocabItem, error) {
	var fc fileCorpus
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("invalid corpus: %w", err)
	}
	items := make([]model.VocabItem, 0, len(fc.Words))
	seen := make(map[string]struct{}, len(fc.Words))
	for i, w := range fc.Words {
		id := strings.TrimSpace(string(w.ID))
		if id == "" {
			return nil, fmt.Errorf("word %d has no id", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate word id %q", id)
		}
		seen[id] = struct{}{}
		items = append(items, model.VocabItem{ID: id, Chapter: w.Chapter, TextA: w.LT, TextB: w.TL})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	return items, nil
}

// Write stores items at path in vocab.json format. The file is replaced
// atomically.
func Write(path string, items []model.VocabItem) error {
	fc := fileCorpus{Words: make([]fileWord, 0, len(items))}
	for _, item := range items {
		fc.Words = append(fc.Words, fileWord{ID: wordID(item.ID), Chapter: item.Chapter, LT: item.TextA, TL: item.TextB})
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".vocab-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Chapters returns the distinct chapters in ascending order.
func Chapters(items []model.VocabItem) []int {
	set := map[int]struct{}{}
	for _, item := range items {
		set[item.Chapter] = struct{}{}
	}
	chapters := make([]int, 0, len(set))
	for ch := range set {
		chapters = append(chapters, ch)
	}
	sort.Ints(chapters)
	return chapters
}

// InChapter returns the items belonging to chapter, in corpus order.
func InChapter(items []model.VocabItem, chapter int) []model.VocabItem {
	var pool []model.VocabItem
	for _, item := range items {
		if item.Chapter == chapter {
			pool = append(pool, item)
		}
	}
	return pool
}

// Merge overlays incoming onto base by id. Existing items keep their
// position; new ones are appended.
func Merge(base, incoming []model.VocabItem) []model.VocabItem {
	out := append([]model.VocabItem(nil), base...)
	index := make(map[string]int, len(out))
	for i, item := range out {
		index[item.ID] = i
	}
	for _, item := range incoming {
		if i, ok := index[item.ID]; ok {
			out[i] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// NextID returns one past the largest numeric id in items.
func NextID(items []model.VocabItem) int {
	next := 1
	for _, item := range items {
		if n, err := strconv.Atoi(item.ID); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}
