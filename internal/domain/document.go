package domain

import (
	"strings"
	"time"
)

// KeyPrefix namespaces all store keys owned by this service.
const KeyPrefix = "docsearch:"

// SharingLevel controls who may read a document.
type SharingLevel string

// Sharing levels, from most to least restrictive.
const (
	SharingPrivate SharingLevel = "PRIVATE"
	SharingGroup   SharingLevel = "GROUP"
	SharingPublic  SharingLevel = "PUBLIC"
)

// ParseSharingLevel parses a sharing level case-insensitively.
func ParseSharingLevel(s string) (SharingLevel, bool) {
	switch SharingLevel(strings.ToUpper(s)) {
	case SharingPrivate, SharingGroup, SharingPublic:
		return SharingLevel(strings.ToUpper(s)), true
	}
	return "", false
}

// FileType is the stored file format of a document.
type FileType string

// Supported file types.
const (
	FilePDF   FileType = "PDF"
	FileDOCX  FileType = "DOCX"
	FileXLSX  FileType = "XLSX"
	FilePPTX  FileType = "PPTX"
	FileTXT   FileType = "TXT"
	FileImage FileType = "IMAGE"
)

// ParseFileType parses a file type case-insensitively.
func ParseFileType(s string) (FileType, bool) {
	switch FileType(strings.ToUpper(s)) {
	case FilePDF, FileDOCX, FileXLSX, FilePPTX, FileTXT, FileImage:
		return FileType(strings.ToUpper(s)), true
	}
	return "", false
}

// Document is the read model consumed from the document store.
// The embedding is nil until the backfill job computes it; the rating
// aggregate is derived from related rating records, never stored here.
type Document struct {
	ID            string
	Title         string
	Summary       string
	Content       string
	FileName      string
	FileType      FileType
	FileSize      int64
	SharingLevel  SharingLevel
	OwnerID       string
	OwnerUsername string
	Tags          []string
	GroupIDs      []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Archived      bool
	Embedding     []float32
}

// HasEmbedding reports whether an embedding has been computed for the document.
// Embedding presence is the backfill completion marker.
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// EmbeddingText concatenates title, summary, and content into the text blob
// that gets vectorized, skipping empty parts.
func (d *Document) EmbeddingText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Title, d.Summary, d.Content} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// HasTag reports whether the document carries the named tag.
func (d *Document) HasTag(name string) bool {
	for _, t := range d.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// InGroup reports whether the document is attached to the given group.
func (d *Document) InGroup(id string) bool {
	for _, g := range d.GroupIDs {
		if g == id {
			return true
		}
	}
	return false
}
