package utils

import (
	"time"
)

// for the interactive components like confirmation buttons
type MsgComponentInfo struct {
	DateAdded time.Time
	Data      any
}
