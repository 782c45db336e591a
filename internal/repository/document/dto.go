package document

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/harbormind/docsearch/internal/domain"
)

// Hash field names for the document record.
const (
	fieldID            = "id"
	fieldTitle         = "title"
	fieldSummary       = "summary"
	fieldContent       = "content"
	fieldFileName      = "file_name"
	fieldFileType      = "file_type"
	fieldFileSize      = "file_size"
	fieldSharingLevel  = "sharing_level"
	fieldOwnerID       = "owner_id"
	fieldOwnerUsername = "owner_username"
	fieldTags          = "tags"
	fieldGroupIDs      = "group_ids"
	fieldCreatedAt     = "created_at"
	fieldUpdatedAt     = "updated_at"
	fieldArchived      = "archived"
	fieldEmbedding     = "embedding"
)

// buildHashFields flattens a document into hash fields. Multi-valued fields
// are JSON arrays, timestamps are RFC 3339, and the embedding is packed
// binary float32.
func buildHashFields(doc *domain.Document) (map[string]string, error) {
	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	groups, err := json.Marshal(doc.GroupIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal group ids: %w", err)
	}

	fields := map[string]string{
		fieldID:            doc.ID,
		fieldTitle:         doc.Title,
		fieldSummary:       doc.Summary,
		fieldContent:       doc.Content,
		fieldFileName:      doc.FileName,
		fieldFileType:      string(doc.FileType),
		fieldFileSize:      strconv.FormatInt(doc.FileSize, 10),
		fieldSharingLevel:  string(doc.SharingLevel),
		fieldOwnerID:       doc.OwnerID,
		fieldOwnerUsername: doc.OwnerUsername,
		fieldTags:          string(tags),
		fieldGroupIDs:      string(groups),
		fieldCreatedAt:     doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt:     doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
		fieldArchived:      boolField(doc.Archived),
	}

	if doc.HasEmbedding() {
		fields[fieldEmbedding] = string(encodeVector(doc.Embedding))
	}

	return fields, nil
}

// parseHashFields rebuilds a document from its hash fields.
func parseHashFields(fields map[string]string) (*domain.Document, error) {
	doc := &domain.Document{
		ID:            fields[fieldID],
		Title:         fields[fieldTitle],
		Summary:       fields[fieldSummary],
		Content:       fields[fieldContent],
		FileName:      fields[fieldFileName],
		FileType:      domain.FileType(fields[fieldFileType]),
		SharingLevel:  domain.SharingLevel(fields[fieldSharingLevel]),
		OwnerID:       fields[fieldOwnerID],
		OwnerUsername: fields[fieldOwnerUsername],
		Archived:      fields[fieldArchived] == "1",
	}

	if raw := fields[fieldFileSize]; raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse file size: %w", err)
		}
		doc.FileSize = size
	}

	if raw := fields[fieldTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.Tags); err != nil {
			return nil, fmt.Errorf("parse tags: %w", err)
		}
	}
	if raw := fields[fieldGroupIDs]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.GroupIDs); err != nil {
			return nil, fmt.Errorf("parse group ids: %w", err)
		}
	}

	var err error
	if doc.CreatedAt, err = parseTimeField(fields[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if doc.UpdatedAt, err = parseTimeField(fields[fieldUpdatedAt]); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	if raw := fields[fieldEmbedding]; raw != "" {
		vec, err := decodeVector([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("parse embedding: %w", err)
		}
		doc.Embedding = vec
	}

	return doc, nil
}

func parseTimeField(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// encodeVector packs a float32 slice into little-endian binary.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a little-endian binary float32 slice.
func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
