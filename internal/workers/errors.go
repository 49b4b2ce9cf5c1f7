package workers

import "errors"

var (
	ErrInvalidPeriod   = errors.New("timer period must be positive")
	ErrInvalidSchedule = errors.New("invalid cron schedule")
	ErrTickPanicked    = errors.New("tick panicked")
)
