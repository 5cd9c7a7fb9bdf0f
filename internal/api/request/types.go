package request

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	Mode           string `json:"mode"`
	ChallengeLevel int    `json:"challenge_level,omitempty"`
}
