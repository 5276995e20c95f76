package utils

import (
	"time"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ remittance.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Checker) (*remittance.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, 0, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Deliverer) (*remittance.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var (
		resLog string
		events int
	)
	if err == nil {
		resLog = res.Log
		events = len(res.Events)
	}
	logDuration(ctx, tx, start, resLog, events, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx remittance.Context, tx remittance.Tx, start time.Time, msg string, events int, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := remittance.GetLogger(ctx).With(
		"path", remittance.GetPath(tx),
		"duration", delta/time.Microsecond,
	)

	if err != nil {
		code, _ := errors.ABCIInfo(err, false)
		logger.Error(msg, "code", code, "err", err)
		return
	}

	// Message can be empty, the entry still carries the path and timing.
	if lowPrio {
		logger.Debug(msg)
	} else {
		logger.Info(msg, "events", events)
	}
}
