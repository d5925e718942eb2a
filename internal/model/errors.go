package model

import "errors"

var (
	// ErrInvalidArgument marks a caller contract violation, e.g. a non-positive window.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoHistoryData means the requested symbol produced no usable history.
	ErrNoHistoryData = errors.New("no history data")
	// ErrDirectoryUnavailable means the symbol feed could not be fetched or parsed.
	ErrDirectoryUnavailable = errors.New("symbol directory unavailable")
)
