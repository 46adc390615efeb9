package tui

import "errors"

// ErrMissingRecordService is returned when the record service is not provided.
var ErrMissingRecordService = errors.New("tui: record service is required")
