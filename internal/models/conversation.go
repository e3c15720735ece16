// Package models defines the data structures for interview sessions and turns.
package models

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is a single utterance in the interview history.
// Messages are immutable once created; history only grows for the
// lifetime of one session.
type ConversationMessage struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// InterviewType selects the interviewer persona on the backend.
type InterviewType string

const (
	InterviewTechnical  InterviewType = "technical"
	InterviewBehavioral InterviewType = "behavioral"
	InterviewCaseStudy  InterviewType = "case_study"
)

// TTSProvider selects the speech synthesis backend.
type TTSProvider string

const (
	TTSProviderEdge   TTSProvider = "edge"
	TTSProviderSarvam TTSProvider = "sarvam"
)

// TTSOptions configures speech synthesis for a turn.
type TTSOptions struct {
	Provider TTSProvider
	Language string
	Model    string
}

// TurnResponse is the decoded body returned by the turn-processing endpoint.
// Either usable (possibly with empty audio) or carrying an error that
// aborts the turn. TTSError signals a partial failure: transcript and
// reply succeeded, synthesis did not.
type TurnResponse struct {
	UserTranscript string `json:"user_transcript"`
	AIResponseText string `json:"ai_response_text"`
	AudioBase64    string `json:"audio_base64"`
	Error          string `json:"error,omitempty"`
	TTSError       string `json:"tts_error,omitempty"`
}
