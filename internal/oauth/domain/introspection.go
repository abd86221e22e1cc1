package domain

// IntrospectionResponse is the RFC 7662 wire representation of a token's
// state. The zero value is the uniform inactive response: not-found,
// unauthorized, revoked, and expired tokens are indistinguishable in output.
type IntrospectionResponse struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
	Sub       string `json:"sub,omitempty"`
	Aud       string `json:"aud,omitempty"`
	Iss       string `json:"iss,omitempty"`
	Jti       string `json:"jti,omitempty"`
}

// InactiveIntrospection returns the uniform inactive response.
func InactiveIntrospection() *IntrospectionResponse {
	return &IntrospectionResponse{Active: false}
}
