// Package capture defines the interface for audio capture devices.
package capture

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoAudioCaptured is returned by Stop when capture produced no data.
// Callers must treat this as a local failure: no turn request is issued.
var ErrNoAudioCaptured = errors.New("no audio captured")

// DeviceError wraps a microphone or camera acquisition/hardware failure.
type DeviceError struct {
	Op  string // "start", "stop", "close"
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("capture device %s failed: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Recorder defines the interface for audio capture sources
// (microphone, file playback, test doubles).
//
// The device is held from Start until Stop or Close; implementations
// must release it on every exit path, including error paths.
type Recorder interface {
	// Start acquires the device and begins accumulating audio.
	Start(ctx context.Context) error

	// Stop finalizes the capture into a single audio blob and releases
	// the device. Returns ErrNoAudioCaptured if nothing was recorded.
	Stop() ([]byte, error)

	// Close releases the device without producing a blob. Idempotent;
	// safe to call after Stop or on teardown.
	Close() error
}
