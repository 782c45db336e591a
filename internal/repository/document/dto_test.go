package document

import (
	"reflect"
	"testing"
	"time"

	"github.com/harbormind/docsearch/internal/domain"
)

func TestHashFieldsRoundTrip(t *testing.T) {
	created := time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)
	doc := &domain.Document{
		ID:            "doc-1",
		Title:         "Quarterly report",
		Summary:       "Numbers for Q1",
		Content:       "Full text here",
		FileName:      "q1.pdf",
		FileType:      domain.FilePDF,
		FileSize:      2048,
		SharingLevel:  domain.SharingGroup,
		OwnerID:       "u1",
		OwnerUsername: "alice",
		Tags:          []string{"finance", "q1"},
		GroupIDs:      []string{"g-fin"},
		CreatedAt:     created,
		UpdatedAt:     created.Add(time.Hour),
		Archived:      true,
		Embedding:     []float32{0.25, -1.5, 3},
	}

	fields, err := buildHashFields(doc)
	if err != nil {
		t.Fatalf("buildHashFields: %v", err)
	}

	got, err := parseHashFields(fields)
	if err != nil {
		t.Fatalf("parseHashFields: %v", err)
	}

	if !reflect.DeepEqual(doc, got) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", doc, got)
	}
}

func TestParseHashFields_MinimalRecord(t *testing.T) {
	doc, err := parseHashFields(map[string]string{
		fieldID:    "doc-2",
		fieldTitle: "Bare",
	})
	if err != nil {
		t.Fatalf("parseHashFields: %v", err)
	}

	if doc.ID != "doc-2" || doc.Title != "Bare" {
		t.Errorf("unexpected document: %+v", doc)
	}
	if doc.HasEmbedding() {
		t.Error("expected no embedding on minimal record")
	}
	if !doc.CreatedAt.IsZero() {
		t.Errorf("expected zero created_at, got %v", doc.CreatedAt)
	}
}

func TestParseHashFields_BadTimestamp(t *testing.T) {
	_, err := parseHashFields(map[string]string{
		fieldID:        "doc-3",
		fieldCreatedAt: "yesterday",
	})
	if err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestDecodeVector_BadLength(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated vector blob")
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0, -0.5, 1.25, 3.14159}
	got, err := decodeVector(encodeVector(vec))
	if err != nil {
		t.Fatalf("decodeVector: %v", err)
	}
	if !reflect.DeepEqual(vec, got) {
		t.Errorf("expected %v, got %v", vec, got)
	}
}
