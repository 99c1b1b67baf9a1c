// Package model defines shared data structures.
package model

// VocabItem is one corpus entry. It is owned by the corpus and never mutated.
type VocabItem struct {
	ID      string
	Chapter int
	TextA   string
	TextB   string
}

// Config defines practice settings.
type Config struct {
	Chapter    int
	Filter     string
	Mode       string
	Direction  string
	CorpusPath string
}

// StorageConfig selects and configures the persistence gateway.
type StorageConfig struct {
	Driver      string
	Path        string
	Key         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// ChapterSummary describes the scheduling state of one chapter.
type ChapterSummary struct {
	Chapter int
	Total   int
	New     int
	Due     int
	// Boxes counts reviewed items per box; len equals the interval table length.
	Boxes []int
}
