// Package mock provides a mock audio player for tests.
package mock

import (
	"context"
	"sync"
)

// Player records every blob handed to the output device.
type Player struct {
	mu     sync.Mutex
	played [][]byte

	// FailWith, if set, is returned by Play to simulate an output failure.
	FailWith error
}

func New() *Player {
	return &Player{}
}

// Play records the audio and returns FailWith if configured.
func (p *Player) Play(ctx context.Context, audio []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailWith != nil {
		return p.FailWith
	}
	p.played = append(p.played, audio)
	return nil
}

// Played returns the blobs played so far.
func (p *Player) Played() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.played))
	copy(out, p.played)
	return out
}
