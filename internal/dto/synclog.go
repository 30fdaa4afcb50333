package dto

import (
	"time"

	"retrosync/internal/domain"
)

type LogEventRequest struct {
	Action   string `json:"action"`
	FilePath string `json:"filePath"`
	FileSize int64  `json:"fileSize,omitempty"`
	Status   string `json:"status"`
	ErrorMsg string `json:"errorMsg,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

type LogEventResponse struct {
	LogID     string    `json:"logId"`
	CreatedAt time.Time `json:"createdAt"`
}

type LogListResponse struct {
	Logs   []domain.SyncLog `json:"logs"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
