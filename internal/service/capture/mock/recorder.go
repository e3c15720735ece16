// Package mock provides a mock audio recorder for testing without a
// capture device. It yields scripted audio blobs, one per Start/Stop
// cycle, and tracks device acquisition so tests can verify release
// discipline.
package mock

import (
	"context"
	"sync"

	"interview-live-service/internal/service/capture"
)

// DefaultSamples are placeholder audio blobs returned per capture cycle.
var DefaultSamples = [][]byte{
	[]byte("sample-audio-1"),
	[]byte("sample-audio-2"),
	[]byte("sample-audio-3"),
}

// Recorder implements capture.Recorder with scripted blobs.
type Recorder struct {
	mu          sync.Mutex
	samples     [][]byte
	sampleIndex int
	recording   bool
	closed      bool

	// StartErr, if set, is returned by Start to simulate a device failure.
	StartErr error
	// EmptyCapture, if true, makes Stop return ErrNoAudioCaptured.
	EmptyCapture bool

	// Acquisitions counts successful Start calls.
	Acquisitions int
	// Releases counts device releases (Stop or Close while recording).
	Releases int
}

// New creates a mock recorder cycling through DefaultSamples.
func New() *Recorder {
	return &Recorder{samples: DefaultSamples}
}

// NewWithSamples creates a mock recorder with the given scripted blobs.
func NewWithSamples(samples [][]byte) *Recorder {
	return &Recorder{samples: samples}
}

// Start acquires the simulated device.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.StartErr != nil {
		return &capture.DeviceError{Op: "start", Err: r.StartErr}
	}
	r.recording = true
	r.closed = false
	r.Acquisitions++
	return nil
}

// Stop finalizes the capture and releases the device.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil, capture.ErrNoAudioCaptured
	}
	r.recording = false
	r.Releases++

	if r.EmptyCapture {
		return nil, capture.ErrNoAudioCaptured
	}

	blob := r.samples[r.sampleIndex%len(r.samples)]
	r.sampleIndex++
	return blob, nil
}

// Close releases the device. Idempotent.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		r.recording = false
		r.Releases++
	}
	r.closed = true
	return nil
}

// Recording reports whether the simulated device is currently held.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}
