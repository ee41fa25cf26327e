package services

import (
	"context"
	"time"
)

// HealthStatus is the payload for the health endpoints.
type HealthStatus struct {
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	ModelLoaded bool      `json:"model_loaded"`
	Uptime      string    `json:"uptime"`
	Timestamp   time.Time `json:"timestamp"`
}

// HealthService reports service health and readiness.
type HealthService struct {
	version    string
	startTime  time.Time
	prediction *PredictionService
}

// NewHealthService creates a health service bound to the prediction
// service whose model readiness it reports.
func NewHealthService(version string, prediction *PredictionService) *HealthService {
	return &HealthService{
		version:    version,
		startTime:  time.Now(),
		prediction: prediction,
	}
}

// Health returns the current health status. The service is degraded
// while no model is loaded: alive, but not able to predict.
func (s *HealthService) Health(ctx context.Context) HealthStatus {
	status := "healthy"
	modelLoaded := s.prediction != nil && s.prediction.ModelReady()
	if !modelLoaded {
		status = "degraded"
	}

	return HealthStatus{
		Status:      status,
		Version:     s.version,
		ModelLoaded: modelLoaded,
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
		Timestamp:   time.Now().UTC(),
	}
}

// Ready reports whether the service can serve predictions.
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.prediction != nil && s.prediction.ModelReady()
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Version string    `json:"version"`
	Started time.Time `json:"started"`
}

// Version returns build information for the version endpoint.
func (s *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version: s.version,
		Started: s.startTime.UTC(),
	}
}
