package entity

import "time"

// File is the metadata record paired with exactly one physical blob.
// The ID is a random 128-bit identifier generated at store time; the blob
// lives on disk under StoredName (the id plus the original extension).
// UserID never changes after creation and is the sole authorization gate
// for retrieval and deletion.
type File struct {
	ID           string    // Random identifier generated at store time.
	UserID       int64     // Owner; checked before any filesystem access.
	OriginalName string    // Name declared by the uploader, for presentation.
	StoredName   string    // ID plus the original extension, names the blob.
	Size         int64     // Payload size in bytes. Zero is allowed.
	MimeType     string    // Declared content type; empty when unknown.
	StoragePath  string    // Full on-disk path of the blob, base dir plus stored name.
	CreatedAt    time.Time
}

// StorageStats is a pure read aggregation over a user's metadata records.
type StorageStats struct {
	FileCount int64 `json:"file_count"`
	TotalSize int64 `json:"total_size"`
}
