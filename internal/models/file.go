package models

import "time"

// FileRecord is the durable metadata describing one uploaded document.
// FilePath is unique within the owner's namespace and never changes after
// creation; Classification is the only mutable field.
type FileRecord struct {
	ID             string    `db:"id" json:"id"`
	OwnerID        string    `db:"owner_id" json:"owner_id"`
	FileName       string    `db:"file_name" json:"file_name"`
	FilePath       string    `db:"file_path" json:"file_path"`
	Classification string    `db:"classification" json:"classification"`
	UploadedAt     time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// FileFilter narrows a listing. Both substrings are optional and matched
// case-insensitively; together they combine with AND.
type FileFilter struct {
	NameContains           string
	ClassificationContains string
}
