package dto

import "time"

// DeviceVerificationResponse describes a pending device authorization so a
// verification UI can show the user what they are approving. The device
// code itself is never exposed here.
type DeviceVerificationResponse struct {
	UserCode   string    `json:"user_code"`
	ClientName string    `json:"client_name"`
	Scope      string    `json:"scope,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	Status     string    `json:"status"`
}

// DeviceDecisionResponse confirms that the resource owner's decision was
// recorded.
type DeviceDecisionResponse struct {
	UserCode string `json:"user_code"`
	Status   string `json:"status"`
}
