package main

import (
	"log"
	"os"
)

var debugEnabled = os.Getenv("RGV_DEBUG") != ""

// debugLog logs only when RGV_DEBUG is set in the environment.
func debugLog(format string, v ...interface{}) {
	if debugEnabled {
		log.Printf(format, v...)
	}
}
