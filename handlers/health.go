package handlers

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/jshill103/lotto-brain/services"
)

// HealthStatus represents the overall health of the application.
type HealthStatus struct {
	Status    string                 `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp string                 `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Version   string                 `json:"version"`
	Services  map[string]ServiceInfo `json:"services"`
	System    SystemInfo             `json:"system"`
}

// ServiceInfo represents the health of an individual service.
type ServiceInfo struct {
	Status  string `json:"status"` // "up", "down", "degraded"
	Message string `json:"message"`
}

// SystemInfo contains system-level metrics.
type SystemInfo struct {
	GoVersion     string  `json:"goVersion"`
	NumGoroutines int     `json:"numGoroutines"`
	MemoryAllocMB float64 `json:"memoryAllocMB"`
	MemorySysMB   float64 `json:"memorySysMB"`
	NumCPU        int     `json:"numCPU"`
	LastGCTime    string  `json:"lastGCTime"`
}

// HandleHealth returns comprehensive health check information for GET /health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(serverStartedAt).String(),
		Version:   "1.0.0",
		Services:  make(map[string]ServiceInfo),
		System:    getSystemInfo(),
	}

	health.Services["drawStore"] = checkDrawStore()
	health.Services["winningBrain"] = checkBrain(winningBrain, "winning")
	health.Services["machineBrain"] = checkBrain(machineBrain, "machine")
	health.Services["predictionCache"] = checkPredictionCache()
	health.Services["verificationLoop"] = checkVerification()

	downCount, degradedCount := 0, 0
	for _, service := range health.Services {
		switch service.Status {
		case "down":
			downCount++
		case "degraded":
			degradedCount++
		}
	}

	if downCount > 0 {
		health.Status = "unhealthy"
	} else if degradedCount > 0 {
		health.Status = "degraded"
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(health)
}

func getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	lastGCTime := "never"
	if m.LastGC > 0 {
		lastGCTime = time.Unix(0, int64(m.LastGC)).Format(time.RFC3339)
	}

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		MemorySysMB:   float64(m.Sys) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
		LastGCTime:    lastGCTime,
	}
}

func checkDrawStore() ServiceInfo {
	if drawStore == nil {
		return ServiceInfo{Status: "down", Message: "draw store not initialized"}
	}
	return ServiceInfo{Status: "up", Message: "draw cache operational"}
}

func checkBrain(b *services.Brain, stream string) ServiceInfo {
	if b == nil {
		return ServiceInfo{Status: "down", Message: stream + " brain not initialized"}
	}
	state := b.Status()
	if state == nil {
		return ServiceInfo{Status: "degraded", Message: stream + " brain has no state yet"}
	}
	return ServiceInfo{
		Status:  "up",
		Message: stream + " brain loaded, " + strconv.Itoa(len(state.History)) + " history entries",
	}
}

func checkPredictionCache() ServiceInfo {
	if predictionCache == nil {
		return ServiceInfo{Status: "degraded", Message: "prediction cache not initialized"}
	}
	return ServiceInfo{Status: "up", Message: "prediction cache operational"}
}

func checkVerification() ServiceInfo {
	if verificationService == nil {
		return ServiceInfo{Status: "degraded", Message: "verification loop not initialized"}
	}
	return ServiceInfo{Status: "up", Message: "verification loop operational"}
}
