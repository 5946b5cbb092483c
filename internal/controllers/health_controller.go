package controllers

import (
	"fmt"
	"net/http"
	"time"

	"adoptwatch/internal/storage"
	"adoptwatch/internal/structures"
)

type HealthController struct {
	backend   *storage.Backend
	conf      *structures.Config
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Backend       string  `json:"backend"`
	Keys          *int    `json:"keys,omitempty"`
	UsedBytes     *int    `json:"used_bytes,omitempty"`
	Unsaved       *bool   `json:"unsaved,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Version:       hc.conf.AppVersion,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Backend:       hc.conf.Storage.Backend,
	}
	if mem := hc.backend.Memory; mem != nil {
		keys, used, dirty := mem.Len(), mem.Used(), mem.IsDirty()
		resp.Keys, resp.UsedBytes, resp.Unsaved = &keys, &used, &dirty
	}
	writeJSON(w, http.StatusOK, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(backend *storage.Backend, conf *structures.Config) *HealthController {
	return &HealthController{
		backend:   backend,
		conf:      conf,
		startTime: time.Now(),
	}
}
