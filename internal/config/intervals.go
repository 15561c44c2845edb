package config

import "time"

// Worker intervals
const (
	// SessionBackupInterval defines how often dirty sessions are saved to Redis
	SessionBackupInterval = 5 * time.Second

	// RouteBackupInterval defines how often new routes are saved to PostgreSQL
	RouteBackupInterval = 30 * time.Second

	// MemoryReportInterval defines how often runtime memory stats are logged
	MemoryReportInterval = 30 * time.Second
)
