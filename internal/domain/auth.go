package domain

import "time"

// RecoveryCode is a one-time code issued during password recovery.
type RecoveryCode struct {
	Email     string
	Code      string
	Verified  bool
	ExpiresAt time.Time
}

// ChatReply is the assistant answer to a chat message.
type ChatReply struct {
	Text string `json:"text"`
}
