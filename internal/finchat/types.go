package finchat

// Request is one chat turn from the client.  A blank SessionID starts a new
// session; clients echo the returned SessionID to keep conversation history.
type Request struct {
	Question  string `json:"question" binding:"required,max=500"`
	SessionID string `json:"sessionId" binding:"omitempty,max=100"`
}

// Response carries the advisor reply for one turn.
type Response struct {
	SessionID      string `json:"sessionId"`
	Reply          string `json:"reply"`
	FinanceRelated bool   `json:"financeRelated"`
}
