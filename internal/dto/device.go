package dto

import "time"

type RegisterDeviceRequest struct {
	Name       string `json:"name"`
	DeviceType string `json:"deviceType"`
}

type RegisterDeviceResponse struct {
	DeviceID   string `json:"deviceId"`
	Name       string `json:"name"`
	DeviceType string `json:"deviceType"`
	// APIKey is returned exactly once, at registration.
	APIKey string `json:"apiKey"`
}

type HeartbeatResponse struct {
	DeviceID   string    `json:"deviceId"`
	DeviceName string    `json:"deviceName"`
	LastSyncAt time.Time `json:"lastSyncAt"`
}
