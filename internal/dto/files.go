package dto

import "time"

// UploadedFile is one successful entry in an upload response.
type UploadedFile struct {
	ID             string `json:"id"`
	FileName       string `json:"file_name"`
	FilePath       string `json:"file_path"`
	Classification string `json:"classification"`
}

// FailedFile reports one file the batch could not ingest. The rest of the
// batch is unaffected.
type FailedFile struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

// UploadResponse mirrors the legacy upload contract: per-file outcomes plus
// the option labels the classifier drew from.
type UploadResponse struct {
	UploadedFiles []interface{} `json:"uploaded_files"`
	OptionsUsed   []string      `json:"options_used"`
}

// FileView is the listing projection of a FileRecord.
type FileView struct {
	ID             string    `json:"id"`
	FileName       string    `json:"file_name"`
	Classification string    `json:"classification"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

// ListFilesResponse wraps a listing.
type ListFilesResponse struct {
	Files []FileView `json:"files"`
}

// UpdateClassificationRequest changes one record's classification. The label
// is free text on purpose; it is not checked against the owner's option set.
type UpdateClassificationRequest struct {
	ID             string `json:"id" binding:"required" validate:"required"`
	Classification string `json:"classification" binding:"required" validate:"required"`
}

// UpdateClassificationResponse confirms a classification change.
type UpdateClassificationResponse struct {
	Message        string `json:"message"`
	ID             string `json:"id"`
	Classification string `json:"classification"`
}

// DeleteFileRequest identifies the record to remove.
type DeleteFileRequest struct {
	ID string `json:"id" validate:"required"`
}

// DeleteFileResponse confirms a removal.
type DeleteFileResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// OptionsResponse lists the owner's allowed classification labels.
type OptionsResponse struct {
	Options []string `json:"options"`
}

// DownloadURLResponse carries a signed, time-limited download link.
type DownloadURLResponse struct {
	ID          string    `json:"id"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
