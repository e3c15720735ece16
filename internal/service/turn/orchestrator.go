// Package turn provides the orchestrator that coordinates one exchange
// in a live interview: finalize a captured audio segment, submit it
// with conversation history to the backend, append the resulting
// user/assistant message pair, and play the returned audio.
package turn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"interview-live-service/internal/events"
	"interview-live-service/internal/models"
	"interview-live-service/internal/observability/logging"
	"interview-live-service/internal/observability/metrics"
	"interview-live-service/internal/service/backend"
	"interview-live-service/internal/service/capture"
	"interview-live-service/internal/service/playback"
	"interview-live-service/internal/service/session"
)

// Limits defines safety guardrails for live sessions.
type Limits struct {
	MaxTurnAudioBytes int64 // Max audio per captured turn
	MaxTurns          int   // Max turns per session
	MaxDuration       time.Duration
}

// DefaultLimits returns sensible default limits.
func DefaultLimits() Limits {
	return Limits{
		MaxTurnAudioBytes: 10 * 1024 * 1024, // 10MB (~5 minutes of webm/opus)
		MaxTurns:          200,
		MaxDuration:       2 * time.Hour,
	}
}

// ErrTurnLimitExceeded is returned when a session limit blocks a turn.
var ErrTurnLimitExceeded = errors.New("session turn limit exceeded")

// Result is the outcome of one successfully processed turn.
type Result struct {
	TurnID         string
	UserTranscript string
	AIResponseText string
	// TTSWarning carries a non-fatal synthesis failure. The turn
	// succeeded and history was updated, but no audio was played.
	TTSWarning string
	// AudioPlayed reports whether response audio playback completed.
	AudioPlayed bool
}

// Orchestrator runs one live interview session. At most one turn is in
// flight at a time; concurrent submissions are rejected by the session
// lifecycle guard rather than relying on the caller to serialize.
type Orchestrator struct {
	recorder  capture.Recorder
	client    *backend.Client
	player    playback.Player
	publisher *events.Publisher
	lifecycle *session.Lifecycle
	clock     *session.Clock
	gen       *session.Generator
	metrics   *metrics.Metrics

	interviewType models.InterviewType
	tts           models.TTSOptions
	limits        Limits

	mu         sync.Mutex
	history    []models.ConversationMessage
	turnCount  int
	turnCancel context.CancelFunc
}

// Config wires an orchestrator's collaborators.
type Config struct {
	Recorder      capture.Recorder
	Client        *backend.Client
	Player        playback.Player
	Publisher     *events.Publisher
	InterviewType models.InterviewType
	TTS           models.TTSOptions
	Limits        Limits
}

// NewOrchestrator creates and starts a new live interview session.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.New(nil)
	}
	gen := session.New()
	o := &Orchestrator{
		recorder:      cfg.Recorder,
		client:        cfg.Client,
		player:        cfg.Player,
		publisher:     cfg.Publisher,
		lifecycle:     session.NewLifecycle(gen.NextSession()),
		clock:         session.StartClock(),
		gen:           gen,
		metrics:       metrics.DefaultMetrics,
		interviewType: cfg.InterviewType,
		tts:           cfg.TTS,
		limits:        cfg.Limits,
	}
	o.metrics.RecordSessionStart()

	logger := logging.WithSession(o.lifecycle.SessionId(), string(o.interviewType))
	logger.Info().
		Str("ttsProvider", string(o.tts.Provider)).
		Str("ttsLanguage", o.tts.Language).
		Msg("Live interview session started")
	return o
}

// SessionId returns the session identifier.
func (o *Orchestrator) SessionId() string {
	return o.lifecycle.SessionId()
}

// State returns the current session state.
func (o *Orchestrator) State() session.State {
	return o.lifecycle.State()
}

// ElapsedSeconds returns the observational session duration counter.
func (o *Orchestrator) ElapsedSeconds() int64 {
	return o.clock.Seconds()
}

// History returns a copy of the conversation history.
func (o *Orchestrator) History() []models.ConversationMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.ConversationMessage, len(o.history))
	copy(out, o.history)
	return out
}

// TurnCount returns the number of completed turns.
func (o *Orchestrator) TurnCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.turnCount
}

// StartCapture begins accumulating audio for the next turn. Rejected
// with session.ErrTurnInFlight while a turn is processing.
func (o *Orchestrator) StartCapture(ctx context.Context) error {
	if err := o.lifecycle.BeginCapture(); err != nil {
		o.metrics.RecordCaptureRejected(rejectionReason(err))
		return err
	}

	if o.limits.MaxTurns > 0 && o.TurnCount() >= o.limits.MaxTurns {
		o.lifecycle.AbortCapture()
		o.metrics.RecordCaptureRejected("turn_limit")
		return fmt.Errorf("%w: %d turns", ErrTurnLimitExceeded, o.limits.MaxTurns)
	}
	if o.limits.MaxDuration > 0 && time.Duration(o.clock.Seconds())*time.Second >= o.limits.MaxDuration {
		o.lifecycle.AbortCapture()
		o.metrics.RecordCaptureRejected("duration_limit")
		return fmt.Errorf("%w: session over %v", ErrTurnLimitExceeded, o.limits.MaxDuration)
	}

	if err := o.recorder.Start(ctx); err != nil {
		// Device failure releases the capture slot so the user can retry
		o.lifecycle.AbortCapture()
		o.metrics.RecordCaptureRejected("device")
		logger := logging.WithSession(o.SessionId(), string(o.interviewType))
		logger.Error().Err(err).Msg("Capture device unavailable")
		return err
	}
	return nil
}

// CompleteTurn stops the capture, submits the blob with history to the
// backend, appends the user/assistant pair, and plays the response
// audio. Every failure returns the session to Idle so the user may
// retry the turn manually; nothing is retried automatically.
//
// The returned Result is non-nil whenever the backend exchange
// succeeded, even if playback subsequently failed.
func (o *Orchestrator) CompleteTurn(ctx context.Context) (*Result, error) {
	if err := o.lifecycle.BeginProcessing(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := logging.WithSession(o.SessionId(), string(o.interviewType))

	blob, err := o.recorder.Stop()
	if err != nil {
		if errors.Is(err, capture.ErrNoAudioCaptured) {
			o.finishTurn("no_audio", start)
			logger.Warn().Msg("Capture produced no audio, turn aborted locally")
			return nil, err
		}
		o.finishTurn("capture_device", start)
		logger.Error().Err(err).Msg("Capture stop failed")
		return nil, err
	}
	o.metrics.RecordAudioCaptured(len(blob))

	if o.limits.MaxTurnAudioBytes > 0 && int64(len(blob)) > o.limits.MaxTurnAudioBytes {
		o.finishTurn("audio_too_large", start)
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrTurnLimitExceeded, len(blob), o.limits.MaxTurnAudioBytes)
	}

	// The in-flight request is cancellable from EndSession.
	turnCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.turnCancel = cancel
	historySnapshot := make([]models.ConversationMessage, len(o.history))
	copy(historySnapshot, o.history)
	o.mu.Unlock()

	resp, err := o.client.SubmitTurn(turnCtx, blob, historySnapshot, o.interviewType, o.tts)
	cancel()
	o.mu.Lock()
	o.turnCancel = nil
	o.mu.Unlock()

	if err != nil {
		o.finishTurn(failureReason(err), start)
		return nil, err
	}

	// Exactly two messages per successful turn, user then assistant,
	// timestamped at receipt time.
	now := time.Now().UnixMilli()
	o.mu.Lock()
	o.history = append(o.history,
		models.ConversationMessage{Role: models.RoleUser, Content: resp.UserTranscript, Timestamp: now},
		models.ConversationMessage{Role: models.RoleAssistant, Content: resp.AIResponseText, Timestamp: now},
	)
	o.turnCount++
	turnId := o.gen.NextTurn(o.SessionId())
	o.mu.Unlock()

	o.finishTurn("", start)

	result := &Result{
		TurnID:         turnId,
		UserTranscript: resp.UserTranscript,
		AIResponseText: resp.AIResponseText,
		TTSWarning:     resp.TTSError,
	}

	if resp.TTSError != "" {
		// Partial failure: transcript and reply succeeded, synthesis did
		// not. Degrades to no audio played; never aborts the turn.
		o.metrics.RecordTTSDegraded()
		turnLogger := logging.WithTurn(o.SessionId(), turnId)
		turnLogger.Warn().Str("ttsError", resp.TTSError).Msg("Turn succeeded without synthesized audio")
	}

	o.publishTurnCompleted(ctx, result, len(resp.AudioBase64), time.Since(start))

	if resp.TTSError == "" {
		skipped := resp.AudioBase64 == ""
		playErr := playback.PlayBase64(ctx, o.player, resp.AudioBase64)
		o.metrics.RecordPlayback(skipped, playErr)
		if playErr != nil {
			turnLogger := logging.WithTurn(o.SessionId(), turnId)
			turnLogger.Error().Err(playErr).Msg("Response audio playback failed")
			return result, playErr
		}
		result.AudioPlayed = !skipped
	}

	turnLogger := logging.WithTurn(o.SessionId(), turnId)
	turnLogger.Info().
		Int("historyLen", len(o.History())).
		Bool("audioPlayed", result.AudioPlayed).
		Dur("latency", time.Since(start)).
		Msg("Turn completed")

	return result, nil
}

// EndSession ends the live session: the capture device is released, the
// duration clock stops, and any in-flight turn request is cancelled and
// its result discarded. Idempotent.
func (o *Orchestrator) EndSession(ctx context.Context) {
	if !o.lifecycle.End() {
		return
	}

	o.mu.Lock()
	cancel := o.turnCancel
	o.turnCancel = nil
	turns := o.turnCount
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	logger := logging.WithSession(o.SessionId(), string(o.interviewType))

	o.clock.Stop()
	if err := o.recorder.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to release capture device")
	}

	elapsed := o.clock.Seconds()
	o.metrics.RecordSessionEnd(float64(elapsed))

	ev := models.SessionEnded{
		EventType:       "interview.session.ended",
		SessionID:       o.SessionId(),
		InterviewType:   string(o.interviewType),
		Timestamp:       time.Now().UnixMilli(),
		TurnCount:       turns,
		DurationSeconds: elapsed,
	}
	if err := o.publisher.PublishSessionEnded(ctx, o.SessionId(), ev); err != nil {
		logger.Error().Err(err).Msg("Failed to publish session ended event")
	}

	logger.Info().
		Int("turns", turns).
		Str("duration", session.FormatDuration(elapsed)).
		Msg("Live interview session ended")
}

func (o *Orchestrator) finishTurn(failure string, start time.Time) {
	// The session may have been ended mid-turn; the lifecycle stays
	// terminal in that case and the result is discarded.
	if err := o.lifecycle.FinishTurn(); err != nil && !errors.Is(err, session.ErrSessionEnded) {
		logger := logging.WithSession(o.SessionId(), string(o.interviewType))
		logger.Error().Err(err).Msg("Unexpected lifecycle state finishing turn")
	}
	o.metrics.RecordTurn(failure, time.Since(start).Seconds())
}

func (o *Orchestrator) publishTurnCompleted(ctx context.Context, r *Result, audioLen int, latency time.Duration) {
	ev := models.TurnCompleted{
		EventType:      "interview.turn.completed",
		SessionID:      o.SessionId(),
		TurnID:         r.TurnID,
		InterviewType:  string(o.interviewType),
		Timestamp:      time.Now().UnixMilli(),
		UserTranscript: r.UserTranscript,
		AIResponseText: r.AIResponseText,
		AudioBytes:     int64(audioLen),
		LatencyMs:      latency.Milliseconds(),
		TTSDegraded:    r.TTSWarning != "",
	}
	if err := o.publisher.PublishTurnCompleted(ctx, o.SessionId(), ev); err != nil {
		logger := logging.WithTurn(o.SessionId(), r.TurnID)
		logger.Error().Err(err).Msg("Failed to publish turn completed event")
	}
}

func failureReason(err error) string {
	var ue *backend.UnavailableError
	var re *backend.ReportedError
	switch {
	case errors.As(err, &ue):
		return "backend_unavailable"
	case errors.As(err, &re):
		return "backend_reported"
	default:
		return "other"
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, session.ErrTurnInFlight):
		return "turn_in_flight"
	case errors.Is(err, session.ErrAlreadyCapturing):
		return "already_capturing"
	case errors.Is(err, session.ErrSessionEnded):
		return "session_ended"
	default:
		return "other"
	}
}
