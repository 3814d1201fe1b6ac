package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/stockfolio/internal/database"
)

// SystemHandlers exposes process and database health endpoints
type SystemHandlers struct {
	log      zerolog.Logger
	dataDir  string
	ledgerDB *database.DB
	marketDB *database.DB
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(log zerolog.Logger, dataDir string, ledgerDB, marketDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:      log.With().Str("handler", "system").Logger(),
		dataDir:  dataDir,
		ledgerDB: ledgerDB,
		marketDB: marketDB,
	}
}

// HandleHealth handles GET /health. Reports unhealthy when either database
// fails its integrity check.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK

	databases := map[string]string{}
	for _, db := range []*database.DB{h.ledgerDB, h.marketDB} {
		if err := db.HealthCheck(r.Context()); err != nil {
			h.log.Error().Err(err).Str("database", db.Name()).Msg("Health check failed")
			databases[db.Name()] = err.Error()
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			databases[db.Name()] = "ok"
		}
	}

	h.writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"databases": databases,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := h.getSystemStats()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cpu_percent": cpuAvg,
		"ram_percent": ramPercent,
		"data_dir_mb": h.getDirSize(h.dataDir),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{}
	for _, db := range []*database.DB{h.ledgerDB, h.marketDB} {
		info, err := os.Stat(db.Path())
		sizeMB := 0.0
		if err == nil {
			sizeMB = float64(info.Size()) / 1024 / 1024
		}
		stats[db.Name()] = map[string]interface{}{
			"path":    db.Path(),
			"size_mb": sizeMB,
		}
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms sampling interval so the endpoint stays responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
