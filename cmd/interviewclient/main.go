// Command interviewclient drives a live interview session against a
// turn-processing backend using prerecorded answer audio. Each -audio
// file becomes one conversation turn: capture, submit, print the
// transcript and reply, play the reply audio to -out.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"interview-live-service/internal/models"
	"interview-live-service/internal/service/backend"
	"interview-live-service/internal/service/capture"
	"interview-live-service/internal/service/capture/file"
	"interview-live-service/internal/service/playback"
	"interview-live-service/internal/service/session"
	"interview-live-service/internal/service/turn"
)

func main() {
	audioList := flag.String("audio", "../../testdata/answer-1.wav", "Comma-separated list of answer audio files, one per turn")
	backendURL := flag.String("backend", "http://localhost:5001/process_interview_turn", "Turn-processing endpoint URL")
	interviewType := flag.String("type", "technical", "Interview type: technical, behavioral or case_study")
	ttsProvider := flag.String("tts", "edge", "TTS provider: edge or sarvam")
	ttsLanguage := flag.String("lang", "en-US-AriaNeural", "TTS voice or language code")
	ttsModel := flag.String("model", "", "Optional TTS model override")
	outPath := flag.String("out", "", "File for reply audio (default: discard)")
	timeout := flag.Duration("timeout", 90*time.Second, "Per-turn backend timeout")
	flag.Parse()

	_ = godotenv.Load()

	paths := strings.Split(*audioList, ",")
	for i := range paths {
		paths[i] = strings.TrimSpace(paths[i])
	}

	out := io.Discard
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	client := backend.NewClient(*backendURL, *timeout)
	ctx := context.Background()

	if !client.Health(ctx) {
		log.Printf("Warning: backend health check failed, continuing anyway")
	}

	recorder := file.New(paths)
	orch := turn.NewOrchestrator(turn.Config{
		Recorder:      recorder,
		Client:        client,
		Player:        playback.NewWriterPlayer(out),
		InterviewType: models.InterviewType(*interviewType),
		TTS: models.TTSOptions{
			Provider: models.TTSProvider(*ttsProvider),
			Language: *ttsLanguage,
			Model:    *ttsModel,
		},
	})
	defer orch.EndSession(ctx)

	log.Printf("Session %s started: %d turns queued", orch.SessionId(), len(paths))

	for i := range paths {
		if err := orch.StartCapture(ctx); err != nil {
			log.Fatalf("Turn %d: failed to start capture: %v", i+1, err)
		}

		result, err := orch.CompleteTurn(ctx)
		if err != nil {
			reportTurnError(i+1, err)
			continue
		}

		fmt.Printf("\n--- Turn %d (%s) ---\n", i+1, result.TurnID)
		fmt.Printf("You:         %s\n", result.UserTranscript)
		fmt.Printf("Interviewer: %s\n", result.AIResponseText)
		if result.TTSWarning != "" {
			log.Printf("Turn %d: reply audio unavailable: %s", i+1, result.TTSWarning)
		}
	}

	fmt.Printf("\nSession %s finished: %d turns, elapsed %s\n",
		orch.SessionId(), orch.TurnCount(), session.FormatDuration(orch.ElapsedSeconds()))
}

func reportTurnError(n int, err error) {
	var unavailable *backend.UnavailableError
	var reported *backend.ReportedError
	var playbackErr *playback.Error
	switch {
	case errors.Is(err, capture.ErrNoAudioCaptured):
		log.Printf("Turn %d: no audio captured, skipping", n)
	case errors.As(err, &unavailable):
		log.Printf("Turn %d: backend unavailable: %v", n, err)
	case errors.As(err, &reported):
		log.Printf("Turn %d: backend rejected turn: %v", n, err)
	case errors.As(err, &playbackErr):
		log.Printf("Turn %d: reply playback failed: %v", n, err)
	default:
		log.Printf("Turn %d: failed: %v", n, err)
	}
}
