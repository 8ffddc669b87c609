// utils/logger.go
package utils

import (
	"fmt"

	"github.com/fatih/color"
)

// LogInfo prints an informational line in yellow.
func LogInfo(format string, v ...interface{}) {
	color.Yellow("[INFO] %s", fmt.Sprintf(format, v...))
}

// LogSuccess prints a completed-action line in green.
func LogSuccess(format string, v ...interface{}) {
	color.Green("[OK] %s", fmt.Sprintf(format, v...))
}

// LogWarn prints a recoverable problem in magenta.
func LogWarn(format string, v ...interface{}) {
	color.Magenta("[WARN] %s", fmt.Sprintf(format, v...))
}

// LogError prints a failure in red.
func LogError(format string, v ...interface{}) {
	color.Red("[ERROR] %s", fmt.Sprintf(format, v...))
}
