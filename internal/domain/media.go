package domain

import "time"

// MediaBlob is an uploaded media file stored alongside a project.
type MediaBlob struct {
	ID        string
	ProjectID string
	PageID    string
	Type      MediaType
	MimeType  string
	FileName  string
	Data      []byte
	SizeBytes int64
	CreatedAt time.Time
}

// BlobInfo is a MediaBlob without its payload, used for listings.
type BlobInfo struct {
	ID        string
	ProjectID string
	PageID    string
	Type      MediaType
	MimeType  string
	FileName  string
	SizeBytes int64
	CreatedAt time.Time
}

// Info strips the payload.
func (b *MediaBlob) Info() BlobInfo {
	return BlobInfo{
		ID:        b.ID,
		ProjectID: b.ProjectID,
		PageID:    b.PageID,
		Type:      b.Type,
		MimeType:  b.MimeType,
		FileName:  b.FileName,
		SizeBytes: b.SizeBytes,
		CreatedAt: b.CreatedAt,
	}
}
