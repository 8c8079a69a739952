package debug

import (
	"log"
	"os"
	"time"
)

var (
	enabled = false
)

func init() {
	enabled = os.Getenv("OKAERI_DEBUG_DASHBOARD") == "true"
	if enabled {
		log.Println("🐛 Debug dashboard enabled")
	}
}

// IsEnabled reports whether the debug dashboard is enabled.
func IsEnabled() bool {
	return enabled
}

// LogDebug sends a debug-level log entry to the dashboard.
func LogDebug(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "debug", message, metadata)
}

// LogInfo sends an info-level log entry to the dashboard.
func LogInfo(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "info", message, metadata)
}

// LogWarn sends a warn-level log entry to the dashboard.
func LogWarn(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "warn", message, metadata)
}

// LogError sends an error-level log entry to the dashboard.
func LogError(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "error", message, metadata)
}

// UpdateProviderStatus sends the external provider status to the dashboard.
func UpdateProviderStatus(transitStatus, directionsStatus string, transitLastRun time.Time, transitErrors, directionsErrors int) {
	if !enabled {
		return
	}

	var status ProviderStatus
	status.Transit.Status = transitStatus
	status.Transit.LastRun = transitLastRun.UnixMilli()
	status.Transit.Errors = transitErrors
	status.Directions.Status = directionsStatus
	status.Directions.Errors = directionsErrors

	SendProviderStatus(status)
}
