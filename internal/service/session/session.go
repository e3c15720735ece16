package session

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces session and turn identifiers.
type Generator struct {
	counter uint64
}

func New() *Generator {
	return &Generator{}
}

// NextSession returns a fresh session ID.
func (g *Generator) NextSession() string {
	return "sess-" + uuid.NewString()
}

// NextTurn returns a turn ID scoped to a session.
func (g *Generator) NextTurn(sessionId string) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s-turn-%d", sessionId, n)
}
