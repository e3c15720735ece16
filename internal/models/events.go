package models

// TurnCompleted is published after a successful interview turn.
type TurnCompleted struct {
	EventType      string `json:"eventType"`
	SessionID      string `json:"sessionId"`
	TurnID         string `json:"turnId"`
	InterviewType  string `json:"interviewType"`
	Timestamp      int64  `json:"timestamp"`
	UserTranscript string `json:"userTranscript"`
	AIResponseText string `json:"aiResponseText"`
	AudioBytes     int64  `json:"audioBytes"`
	LatencyMs      int64  `json:"latencyMs"`
	TTSDegraded    bool   `json:"ttsDegraded"`
}

// SessionEnded is published when a live interview session ends.
type SessionEnded struct {
	EventType       string `json:"eventType"`
	SessionID       string `json:"sessionId"`
	InterviewType   string `json:"interviewType"`
	Timestamp       int64  `json:"timestamp"`
	TurnCount       int    `json:"turnCount"`
	DurationSeconds int64  `json:"durationSeconds"`
}
