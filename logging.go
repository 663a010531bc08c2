package recipex

import "log"

// InfoLog logs informational messages with timestamps.
func InfoLog(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// WarnLog logs non-fatal advisories: conditions the expansion run can
// proceed past but that a recipe author likely wants to know about.
func WarnLog(format string, v ...interface{}) {
	log.Printf("[WARN] "+format, v...)
}

// ErrorLog logs error messages with timestamps.
func ErrorLog(format string, v ...interface{}) {
	log.Printf("[ERROR] "+format, v...)
}
