package domain

// SyncResult is the outcome of one sync attempt against one configured
// target. The orchestrator returns one SyncResult per configured target and
// none for unconfigured targets.
type SyncResult struct {
	Provider Provider `json:"provider"`
	Owner    Owner    `json:"owner"`
	Success  bool     `json:"success"`
	EventID  string   `json:"eventId,omitempty"`
	Error    string   `json:"error,omitempty"`
}
