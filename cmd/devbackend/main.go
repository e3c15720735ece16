// Command devbackend is a local stand-in for the turn-processing
// backend. It accepts the multipart turn request, transcribes the
// answer and generates the next interviewer question with OpenAI when
// OPENAI_API_KEY is set, and falls back to canned replies otherwise.
// Reply audio synthesis is not implemented; responses carry a tts_error
// so clients exercise the degraded text-only path.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"

	"interview-live-service/internal/models"
)

const maxUploadBytes = 25 * 1024 * 1024

var cannedReplies = map[models.InterviewType][]string{
	models.InterviewTechnical: {
		"Thanks for walking me through that. Could you describe a system you designed and the trade-offs you made?",
		"Interesting. How would you scale that approach if traffic grew tenfold?",
		"Let's switch gears. How do you approach debugging a production incident?",
	},
	models.InterviewBehavioral: {
		"Tell me about a time you disagreed with a teammate. How did you resolve it?",
		"What is a piece of critical feedback you received, and what did you do with it?",
		"Describe a project you are proud of and your specific contribution.",
	},
	models.InterviewCaseStudy: {
		"Our client's revenue dropped 20% last quarter. How would you structure your investigation?",
		"Good. What data would you request first, and why?",
		"Suppose the drop is concentrated in one region. What hypotheses would you test?",
	},
}

type server struct {
	ai *openai.Client
}

func main() {
	port := flag.String("port", "5001", "Listen port")
	flag.Parse()

	_ = godotenv.Load()

	s := &server{}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		s.ai = openai.NewClient(apiKey)
		log.Printf("OpenAI enabled: transcription and reply generation are live")
	} else {
		log.Printf("OPENAI_API_KEY not set: serving canned replies")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/process_interview_turn", s.handleTurn)
	mux.HandleFunc("/health_check", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	log.Printf("Dev interview backend listening on :%s", *port)
	if err := http.ListenAndServe(":"+*port, mux); err != nil {
		log.Fatalf("serve failed: %v", err)
	}
}

func (s *server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeTurn(w, &models.TurnResponse{Error: "invalid multipart request: " + err.Error()})
		return
	}

	audioFile, header, err := r.FormFile("audio")
	if err != nil {
		writeTurn(w, &models.TurnResponse{Error: "missing audio part"})
		return
	}
	defer audioFile.Close()
	audio, err := io.ReadAll(audioFile)
	if err != nil {
		writeTurn(w, &models.TurnResponse{Error: "failed to read audio"})
		return
	}

	var history []models.ConversationMessage
	if raw := r.FormValue("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			writeTurn(w, &models.TurnResponse{Error: "invalid history JSON: " + err.Error()})
			return
		}
	}
	interviewType := models.InterviewType(r.FormValue("interview_type"))
	if interviewType == "" {
		interviewType = models.InterviewTechnical
	}

	log.Printf("Turn received: %d audio bytes (%s), %d history messages, type=%s tts=%s/%s",
		len(audio), header.Filename, len(history),
		interviewType, r.FormValue("tts_provider"), r.FormValue("tts_language"))

	transcript, reply, err := s.respond(r.Context(), audio, header.Filename, history, interviewType)
	if err != nil {
		writeTurn(w, &models.TurnResponse{Error: err.Error()})
		return
	}

	writeTurn(w, &models.TurnResponse{
		UserTranscript: transcript,
		AIResponseText: reply,
		TTSError:       "speech synthesis not available in dev backend",
	})
}

func (s *server) respond(ctx context.Context, audio []byte, filename string, history []models.ConversationMessage, interviewType models.InterviewType) (string, string, error) {
	if s.ai == nil {
		replies := cannedReplies[interviewType]
		if replies == nil {
			replies = cannedReplies[models.InterviewTechnical]
		}
		turnIndex := len(history) / 2
		transcript := fmt.Sprintf("(dev transcript of %d audio bytes)", len(audio))
		return transcript, replies[turnIndex%len(replies)], nil
	}

	transcription, err := s.ai.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", "", fmt.Errorf("transcription failed: %w", err)
	}

	messages := []openai.ChatCompletionMessage{{
		Role: openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(
			"You are a professional interviewer conducting a %s interview. "+
				"Ask one focused follow-up question at a time. Keep replies under three sentences.",
			interviewType),
	}}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: transcription.Text,
	})

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT4oMini,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", "", fmt.Errorf("reply generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("reply generation returned no choices")
	}

	return transcription.Text, resp.Choices[0].Message.Content, nil
}

func writeTurn(w http.ResponseWriter, resp *models.TurnResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
