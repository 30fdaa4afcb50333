package dto

// UploadRequest is the device-facing upload payload. FileContent travels
// base64-encoded on the wire (encoding/json handles []byte that way).
type UploadRequest struct {
	FilePath        string   `json:"filePath"`
	FileSize        int64    `json:"fileSize,omitempty"`
	FileContent     []byte   `json:"fileContent"`
	LocalPath       string   `json:"localPath,omitempty"`
	LocalModifiedAt FlexTime `json:"localModifiedAt,omitempty"`
	SaveKey         string   `json:"saveKey,omitempty"`
	ContentHash     string   `json:"contentHash,omitempty"`
}

// UploadResult is the structured admission outcome. Skipped results are
// successes from the device's point of view; it must not retry them.
type UploadResult struct {
	Message       string `json:"message"`
	Uploaded      bool   `json:"uploaded"`
	Skipped       bool   `json:"skipped,omitempty"`
	PathAdded     bool   `json:"pathAdded,omitempty"`
	SaveID        string `json:"saveId,omitempty"`
	SaveVersionID string `json:"saveVersionId,omitempty"`
	ContentHash   string `json:"contentHash,omitempty"`
	StorageKey    string `json:"storageKey,omitempty"`
}
