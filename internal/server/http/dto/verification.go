package dto

import "time"

// StartVerificationRequest asks for a code to be mailed to the order's email.
type StartVerificationRequest struct {
	Query string `json:"query"`
}

// StartVerificationResponse describes an issued challenge.
type StartVerificationResponse struct {
	ChallengeID string    `json:"challenge_id"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ConfirmVerificationRequest submits the mailed code.
type ConfirmVerificationRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

// ConfirmVerificationResponse carries the verification token.
type ConfirmVerificationResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
