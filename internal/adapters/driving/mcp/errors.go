// Package mcp provides an MCP (Model Context Protocol) server adapter for resumex.
// It lets AI assistants parse résumés, schedule meetings and browse stored records.
package mcp

import "errors"

// ErrMissingRecordService is returned when the record service is not provided.
var ErrMissingRecordService = errors.New("mcp: record service is required")

// errServiceUnavailable is returned by tools whose service is not configured.
var errServiceUnavailable = errors.New("mcp: service not configured, check 'resumex settings'")
