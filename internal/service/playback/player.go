// Package playback plays synthesized response audio on an output device.
package playback

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

// Error wraps a decode or output-device failure during playback.
type Error struct {
	Stage string // "decode", "output"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("playback %s failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Player defines the interface for audio output devices. Play blocks
// until playback ends. Exactly one playback at a time is the caller's
// responsibility.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// PlayBase64 decodes base64-encoded response audio and plays it on the
// given player, resolving when playback ends.
//
// Empty input is a valid no-audio outcome: PlayBase64 resolves
// immediately without touching the output device, any number of times.
func PlayBase64(ctx context.Context, p Player, audioBase64 string) error {
	if audioBase64 == "" {
		return nil
	}

	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return &Error{Stage: "decode", Err: err}
	}

	if err := p.Play(ctx, audio); err != nil {
		return &Error{Stage: "output", Err: err}
	}
	return nil
}

// WriterPlayer writes decoded audio to an io.Writer. Used by the live
// client to hand audio to a sink (file, pipe to a system player).
type WriterPlayer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterPlayer creates a player backed by the given writer.
func NewWriterPlayer(w io.Writer) *WriterPlayer {
	return &WriterPlayer{w: w}
}

// Play writes the audio to the underlying writer. One playback at a time.
func (p *WriterPlayer) Play(ctx context.Context, audio []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.w.Write(audio)
	return err
}
