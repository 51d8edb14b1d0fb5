// Package store contains GORM-backed SQLite models used by the gateway.
//
// Database Structure (database file: poolgate.db):
//
//	databases/
//	└── poolgate.db
//	    └── ping_executions
package store

import (
	"gorm.io/gorm"
)

// Ping execution outcomes.
const (
	PingSubmitted = "submitted"
	PingFailed    = "failed"
)

// PingExecution records one attempt to submit ping() to a timer contract,
// whether scheduled or triggered through the API.
type PingExecution struct {
	gorm.Model
	TimerAddress string `gorm:"index;not null"`            // Timer contract the ping was sent to
	TxHash       string                                    // Transaction hash (empty if submission failed)
	Status       string `gorm:"index;default:'submitted'"` // "submitted" or "failed"
	ErrorMsg     string `gorm:"type:text"`                 // Error message if submission failed
}
