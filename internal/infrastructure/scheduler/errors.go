package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSweeperRunning is returned by RunOnce while a scheduled sweep is in flight
	ErrSweeperRunning = errors.New("sweep already running")
)
