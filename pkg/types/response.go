package types

// Message is the `{"msg": ...}` body used by mutation and auth endpoints.
type Message struct {
	Msg string `json:"msg"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
