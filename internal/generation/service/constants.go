package service

import "time"

const (
	// StatusTimeout is the timeout for the availability probe
	StatusTimeout = 5 * time.Second

	// DefaultTimeout is the standard timeout for SQL generation calls
	DefaultTimeout = 30 * time.Second

	// GenerateTimeout is for full KPI-system generation, which can run long
	GenerateTimeout = 90 * time.Second
)
