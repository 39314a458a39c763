package models

// RequestContext carries the static fields sent unchanged with every request
type RequestContext struct {
	ClientID string  `json:"client_id"`
	UserID   string  `json:"user_id"`
	Lat      float64 `json:"lat"`
	Long     float64 `json:"long"`
}

// AIRequest is the JSON body posted to the assistant endpoint.
// The embedded RequestContext is flattened into the same object.
type AIRequest struct {
	Query    string     `json:"query"`
	History  []ChatTurn `json:"history"`
	LiveMode bool       `json:"live_mode"`
	RequestContext
}

// NewAIRequest builds a request, copying history so later buffer changes
// never leak into an in-flight body
func NewAIRequest(query string, history []ChatTurn, liveMode bool, rc RequestContext) AIRequest {
	h := make([]ChatTurn, len(history))
	copy(h, history)
	return AIRequest{
		Query:          query,
		History:        h,
		LiveMode:       liveMode,
		RequestContext: rc,
	}
}
