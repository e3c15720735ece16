// Package file provides a capture.Recorder backed by audio files on
// disk, used by the live client to drive sessions without a microphone.
// Each Start/Stop cycle consumes the next file in the list.
package file

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"interview-live-service/internal/service/capture"
)

// WAV header is 44 bytes for standard PCM files
const wavHeaderSize = 44

// Recorder implements capture.Recorder over a fixed list of audio files.
type Recorder struct {
	mu        sync.Mutex
	paths     []string
	index     int
	recording bool
}

// New creates a file-backed recorder over the given audio file paths.
func New(paths []string) *Recorder {
	return &Recorder{paths: paths}
}

// Start marks a capture cycle as active. The device here is the file
// list; acquisition cannot fail until read time.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index >= len(r.paths) {
		return &capture.DeviceError{Op: "start", Err: fmt.Errorf("no audio files left (%d consumed)", r.index)}
	}
	r.recording = true
	return nil
}

// Stop reads the next file whole and returns it as the captured blob.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil, capture.ErrNoAudioCaptured
	}
	r.recording = false

	path := r.paths[r.index]
	r.index++

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &capture.DeviceError{Op: "stop", Err: err}
	}
	if len(data) == 0 {
		return nil, capture.ErrNoAudioCaptured
	}

	logWAVInfo(path, data)
	return data, nil
}

// Close releases the recorder. Idempotent.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	return nil
}

// Remaining reports how many capture cycles are left.
func (r *Recorder) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths) - r.index
}

// logWAVInfo logs basic format info for PCM WAV files; other containers
// (webm, mp4) are passed through untouched.
func logWAVInfo(path string, data []byte) {
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return
	}
	sampleRate := uint32(data[24]) | uint32(data[25])<<8 | uint32(data[26])<<16 | uint32(data[27])<<24
	log.Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Uint32("sampleRate", sampleRate).
		Msg("Read WAV capture source")
}
