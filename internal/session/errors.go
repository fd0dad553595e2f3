package session

import "fmt"

// DataSourceError wraps a failure reaching a signal source or candle
// store, distinguished from params.ConfigError so callers can tell
// "your inputs are wrong" from "the backend is unreachable" (spec.md
// §7), grounded on the teacher's data-fetch error wrapping in
// oanda/client.go (%w-wrapped, never a bare string).
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
