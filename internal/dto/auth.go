package dto

type RegisterRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Handle    string `json:"handle"`
	SessionID string `json:"sessionId,omitempty"`
	Admin     bool   `json:"admin,omitempty"`
}
