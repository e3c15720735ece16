// Package backend is the HTTP client for the remote turn-processing
// endpoint: audio in, transcript + AI reply + synthesized audio out.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"interview-live-service/internal/models"
	"interview-live-service/internal/observability/logging"
	"interview-live-service/internal/observability/metrics"
	"interview-live-service/internal/service/capture"
)

// Audio is always submitted under this filename, matching what the
// browser recorder produces.
const audioFilename = "recording.webm"

// UnavailableError is a transport-level failure: non-2xx status or a
// network exception. Each failed turn must be resubmitted by
// re-recording; there is no retry.
type UnavailableError struct {
	Status int
	Body   string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unavailable: %v", e.Err)
	}
	return fmt.Sprintf("backend unavailable: %d: %s", e.Status, e.Body)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ReportedError is an application-level error field carried in an
// otherwise successful response. A distinct failure class from
// transport failure.
type ReportedError struct {
	Message string
}

func (e *ReportedError) Error() string {
	return "backend reported error: " + e.Message
}

// Client submits interview turns to the remote processing endpoint.
type Client struct {
	turnURL    string
	healthURL  string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewClient creates a backend client for the given turn endpoint URL.
// The health check lives at a sibling path of the turn endpoint.
func NewClient(turnURL string, timeout time.Duration) *Client {
	return &Client{
		turnURL:    turnURL,
		healthURL:  healthURLFor(turnURL),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics.DefaultMetrics,
	}
}

// healthURLFor derives the health endpoint from the turn endpoint.
func healthURLFor(turnURL string) string {
	if strings.Contains(turnURL, "process_interview_turn") {
		return strings.Replace(turnURL, "process_interview_turn", "health_check", 1)
	}
	u, err := url.Parse(turnURL)
	if err != nil {
		return turnURL
	}
	i := strings.LastIndex(u.Path, "/")
	u.Path = u.Path[:i+1] + "health_check"
	return u.String()
}

// SubmitTurn sends one captured audio blob with conversation history to
// the backend and decodes the transcript/reply/audio triple.
//
// Empty audio fails fast with capture.ErrNoAudioCaptured; no network
// call is issued. Exactly one network call is made per invocation; no
// retry on failure.
func (c *Client) SubmitTurn(
	ctx context.Context,
	audio []byte,
	history []models.ConversationMessage,
	interviewType models.InterviewType,
	tts models.TTSOptions,
) (*models.TurnResponse, error) {
	if len(audio) == 0 {
		return nil, capture.ErrNoAudioCaptured
	}

	logger := logging.WithComponent("backend")
	start := time.Now()

	body, contentType, err := encodeTurnForm(audio, history, interviewType, tts)
	if err != nil {
		return nil, fmt.Errorf("encode turn request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.turnURL, body)
	if err != nil {
		return nil, fmt.Errorf("build turn request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug().
		Str("url", c.turnURL).
		Int("audioBytes", len(audio)).
		Int("historyLen", len(history)).
		Str("interviewType", string(interviewType)).
		Str("ttsProvider", string(tts.Provider)).
		Msg("Submitting interview turn")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendRequest("unavailable", time.Since(start).Seconds())
		logger.Error().Err(err).Str("url", c.turnURL).Msg("Turn request failed")
		return nil, &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordBackendRequest("unavailable", time.Since(start).Seconds())
		return nil, &UnavailableError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordBackendRequest("unavailable", time.Since(start).Seconds())
		logger.Error().
			Int("status", resp.StatusCode).
			Str("body", preview(respBody)).
			Msg("Turn request returned error status")
		return nil, &UnavailableError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var turn models.TurnResponse
	if err := json.Unmarshal(respBody, &turn); err != nil {
		c.metrics.RecordBackendRequest("unavailable", time.Since(start).Seconds())
		return nil, &UnavailableError{Err: fmt.Errorf("decode response: %w", err)}
	}

	// An error field in a 2xx body aborts the turn all the same.
	if turn.Error != "" {
		c.metrics.RecordBackendRequest("reported_error", time.Since(start).Seconds())
		logger.Warn().Str("error", turn.Error).Msg("Backend reported turn error")
		return nil, &ReportedError{Message: turn.Error}
	}

	c.metrics.RecordBackendRequest("success", time.Since(start).Seconds())
	logger.Info().
		Int("transcriptLen", len(turn.UserTranscript)).
		Int("replyLen", len(turn.AIResponseText)).
		Int("audioBase64Len", len(turn.AudioBase64)).
		Bool("ttsDegraded", turn.TTSError != "").
		Dur("latency", time.Since(start)).
		Msg("Turn processed")

	return &turn, nil
}

// Health issues a GET to the sibling health path. Healthy means the
// transport succeeded with a 2xx status; there is no body contract.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// encodeTurnForm builds the multipart form: binary audio plus
// JSON-encoded history and scalar TTS/interview fields.
func encodeTurnForm(
	audio []byte,
	history []models.ConversationMessage,
	interviewType models.InterviewType,
	tts models.TTSOptions,
) (*bytes.Buffer, string, error) {
	if history == nil {
		history = []models.ConversationMessage{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", audioFilename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"history":        string(historyJSON),
		"interview_type": string(interviewType),
		"tts_provider":   string(tts.Provider),
		"tts_language":   tts.Language,
	}
	if tts.Model != "" {
		fields["tts_model"] = tts.Model
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func preview(body []byte) string {
	const max = 500
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
