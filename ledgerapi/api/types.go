package api

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// PingResponse is returned by PUT /timer/ping.
type PingResponse struct {
	TransactionHash          string `json:"transaction_hash"`
	AutoSchedulePingDuration uint64 `json:"auto_schedule_ping_duration"`
}

// PingRequest is the optional JSON body of PUT /timer/ping. Fields left
// empty fall back to the query string.
type PingRequest struct {
	ContractAdr              string `json:"contract_adr"`
	SigningPrivateKey        string `json:"signing_private_key"`
	AutoSchedulePingDuration uint64 `json:"auto_schedule_ping_duration"`
}

// PingExecution is one entry of GET /timer/ping/history.
type PingExecution struct {
	ID           uint      `json:"id"`
	TimerAddress string    `json:"timer_address"`
	TxHash       string    `json:"tx_hash,omitempty"`
	Status       string    `json:"status"`
	ErrorMsg     string    `json:"error_msg,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
