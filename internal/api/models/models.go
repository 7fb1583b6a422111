package models

import "github.com/smazurov/v4lgrab/internal/version"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" enum:"ok,degraded" doc:"Service status"`
	Message string `json:"message" example:"Capturing" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionResponse struct {
	Body version.Info
}
