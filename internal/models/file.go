package models

import "time"

// Visibility selects the storage zone a file lives in.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// FileEntry represents metadata about a stored file.
type FileEntry struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`
	URL         string    `json:"url"`
	IsPublic    bool      `json:"isPublic"`
	HasPassword bool      `json:"hasPassword"`
}

// UploadResult is the response body for a successful upload.
type UploadResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	IsPublic    bool   `json:"isPublic"`
	HasPassword bool   `json:"hasPassword"`
}
