package output

import (
	"fmt"
	"os"
)

// Sink records qualifying accounts into two append-only text files:
// one for accounts that validated, one for accounts rejected because
// the provider's device limit was reached.
//
// Lines are never rewritten or deduplicated. Repeated runs over
// overlapping account lists will duplicate lines; the engine keeps no
// memory of accounts already recorded. A single worker writes at a
// time, so no locking is needed.
type Sink struct {
	valid       *os.File
	deviceLimit *os.File
}

// NewSink opens (creating if absent) both result files in append mode.
func NewSink(validPath, deviceLimitPath string) (*Sink, error) {
	valid, err := os.OpenFile(validPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open valid-accounts file: %w", err)
	}

	deviceLimit, err := os.OpenFile(deviceLimitPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		valid.Close()
		return nil, fmt.Errorf("open device-limit file: %w", err)
	}

	return &Sink{valid: valid, deviceLimit: deviceLimit}, nil
}

// RecordValid appends one line for a validated account:
//
//	<account> (Expires at: <YYYY-MM-DD>)
func (s *Sink) RecordValid(account, expiry string) error {
	_, err := fmt.Fprintf(s.valid, "%s (Expires at: %s)\n", account, expiry)
	return err
}

// RecordDeviceLimit appends the bare account number to the device-limit file.
func (s *Sink) RecordDeviceLimit(account string) error {
	_, err := fmt.Fprintf(s.deviceLimit, "%s\n", account)
	return err
}

// Close closes both files.
func (s *Sink) Close() error {
	err1 := s.valid.Close()
	err2 := s.deviceLimit.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
