package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.Registry == nil || len(s.app.Registry.All()) == 0 {
		status.Status = "degraded"
		status.Components["registry"] = "no extractors registered"
	} else {
		status.Components["registry"] = fmt.Sprintf("ok (%d extractors)", len(s.app.Registry.All()))
	}

	if s.app.Source == nil {
		status.Status = "degraded"
		status.Components["source"] = "missing"
	} else {
		status.Components["source"] = "ok"
	}

	if s.app.Store != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	return status
}
