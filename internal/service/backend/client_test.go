package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"interview-live-service/internal/models"
	"interview-live-service/internal/service/capture"
)

func testTTS() models.TTSOptions {
	return models.TTSOptions{Provider: models.TTSProviderEdge, Language: "en-US-AriaNeural"}
}

func TestSubmitTurn_EmptyAudioFailsFast(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 5*time.Second)

	for _, audio := range [][]byte{nil, {}} {
		_, err := c.SubmitTurn(context.Background(), audio, nil, models.InterviewTechnical, testTTS())
		if !errors.Is(err, capture.ErrNoAudioCaptured) {
			t.Errorf("expected ErrNoAudioCaptured, got %v", err)
		}
	}
	if calls != 0 {
		t.Errorf("expected zero network calls, got %d", calls)
	}
}

func TestSubmitTurn_SendsMultipartForm(t *testing.T) {
	var gotFilename, gotHistory, gotType, gotProvider, gotLanguage string
	var gotAudio []byte
	var sawModelField bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
		}
		f, header, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("missing audio file: %v", err)
		} else {
			gotFilename = header.Filename
			gotAudio, _ = io.ReadAll(f)
			f.Close()
		}
		gotHistory = r.FormValue("history")
		gotType = r.FormValue("interview_type")
		gotProvider = r.FormValue("tts_provider")
		gotLanguage = r.FormValue("tts_language")
		_, sawModelField = r.MultipartForm.Value["tts_model"]

		json.NewEncoder(w).Encode(models.TurnResponse{
			UserTranscript: "Hello",
			AIResponseText: "Hi there",
			AudioBase64:    "YWJj",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 5*time.Second)

	history := []models.ConversationMessage{
		{Role: models.RoleUser, Content: "Tell me about yourself"},
		{Role: models.RoleAssistant, Content: "I am an interviewer"},
	}
	resp, err := c.SubmitTurn(context.Background(), []byte("audio-bytes"), history, models.InterviewBehavioral, testTTS())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFilename != "recording.webm" {
		t.Errorf("expected filename recording.webm, got %s", gotFilename)
	}
	if string(gotAudio) != "audio-bytes" {
		t.Errorf("unexpected audio payload: %q", gotAudio)
	}
	if gotType != "behavioral" {
		t.Errorf("expected interview_type behavioral, got %s", gotType)
	}
	if gotProvider != "edge" {
		t.Errorf("expected tts_provider edge, got %s", gotProvider)
	}
	if gotLanguage != "en-US-AriaNeural" {
		t.Errorf("expected tts_language en-US-AriaNeural, got %s", gotLanguage)
	}
	if sawModelField {
		t.Error("expected tts_model field omitted when empty")
	}

	var decoded []models.ConversationMessage
	if err := json.Unmarshal([]byte(gotHistory), &decoded); err != nil {
		t.Fatalf("history is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Role != models.RoleUser || decoded[1].Role != models.RoleAssistant {
		t.Errorf("unexpected history: %+v", decoded)
	}

	if resp.UserTranscript != "Hello" || resp.AIResponseText != "Hi there" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSubmitTurn_NilHistorySentAsEmptyArray(t *testing.T) {
	var gotHistory string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(32 << 20)
		gotHistory = r.FormValue("history")
		json.NewEncoder(w).Encode(models.TurnResponse{UserTranscript: "hi", AIResponseText: "hello"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 5*time.Second)
	if _, err := c.SubmitTurn(context.Background(), []byte("a"), nil, models.InterviewTechnical, testTTS()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotHistory != "[]" {
		t.Errorf("expected history '[]', got %q", gotHistory)
	}
}

func TestSubmitTurn_IncludesModelWhenSet(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(32 << 20)
		gotModel = r.FormValue("tts_model")
		json.NewEncoder(w).Encode(models.TurnResponse{UserTranscript: "hi", AIResponseText: "hello"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 5*time.Second)
	tts := models.TTSOptions{Provider: models.TTSProviderSarvam, Language: "hi-IN", Model: "bulbul:v3"}
	if _, err := c.SubmitTurn(context.Background(), []byte("a"), nil, models.InterviewTechnical, tts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotModel != "bulbul:v3" {
		t.Errorf("expected tts_model bulbul:v3, got %q", gotModel)
	}
}

func TestSubmitTurn_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal error"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 5*time.Second)
	_, err := c.SubmitTurn(context.Background(), []byte("a"), nil, models.InterviewTechnical, testTTS())

	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnavailableError, got %v", err)
	}
	if ue.Status != 500 || ue.Body != "Internal error" {
		t.Errorf("unexpected error detail: status=%d body=%q", ue.Status, ue.Body)
	}
	if !strings.Contains(ue.Error(), "500: Internal error") {
		t.Errorf("expected status and body in message, got %q", ue.Error())
	}
}

func TestSubmitTurn_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Refuse connections

	c := NewClient(srv.URL+"/process_interview_turn", 2*time.Second)
	_, err := c.SubmitTurn(context.Background(), []byte("a"), nil, models.InterviewTechnical, testTTS())

	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnavailableError, got %v", err)
	}
	if ue.Err == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestSubmitTurn_BackendReportedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.TurnResponse{Error: "Could not transcribe audio"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 5*time.Second)
	_, err := c.SubmitTurn(context.Background(), []byte("a"), nil, models.InterviewTechnical, testTTS())

	var re *ReportedError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReportedError, got %v", err)
	}
	if re.Message != "Could not transcribe audio" {
		t.Errorf("unexpected message: %q", re.Message)
	}
}

func TestSubmitTurn_TTSErrorDoesNotAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.TurnResponse{
			UserTranscript: "Hello",
			AIResponseText: "Hi there",
			AudioBase64:    "",
			TTSError:       "voice synth failed",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 5*time.Second)
	resp, err := c.SubmitTurn(context.Background(), []byte("a"), nil, models.InterviewTechnical, testTTS())
	if err != nil {
		t.Fatalf("expected success despite tts_error, got %v", err)
	}
	if resp.TTSError != "voice synth failed" {
		t.Errorf("expected tts_error surfaced, got %q", resp.TTSError)
	}
	if resp.AudioBase64 != "" {
		t.Errorf("expected empty audio, got %q", resp.AudioBase64)
	}
}

func TestHealth(t *testing.T) {
	var gotPath string
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/process_interview_turn", 2*time.Second)

	if !c.Health(context.Background()) {
		t.Error("expected healthy")
	}
	if gotPath != "/api/health_check" {
		t.Errorf("expected sibling health path /api/health_check, got %s", gotPath)
	}

	healthy = false
	if c.Health(context.Background()) {
		t.Error("expected unhealthy on 503")
	}
}

func TestHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL+"/process_interview_turn", 1*time.Second)
	if c.Health(context.Background()) {
		t.Error("expected unhealthy when unreachable")
	}
}

func TestHealthURLFor_GenericPath(t *testing.T) {
	got := healthURLFor("https://backend.example.com/v1/turn")
	if got != "https://backend.example.com/v1/health_check" {
		t.Errorf("unexpected health URL: %s", got)
	}
}
