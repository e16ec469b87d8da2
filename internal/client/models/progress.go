package models

import "fmt"

// SyncProgress is a value snapshot of one sync run. It is recomputed and
// broadcast after every processed artifact and is never persisted.
type SyncProgress struct {
	Total      int  `json:"total"`
	Completed  int  `json:"completed"`
	Failed     int  `json:"failed"`
	InProgress bool `json:"in_progress"`
}

// Summary is the user-facing one-liner for a finished or running sync.
func (p SyncProgress) Summary() string {
	switch {
	case p.InProgress:
		return fmt.Sprintf("syncing %d/%d", p.Completed+p.Failed, p.Total)
	case p.Total == 0:
		return "nothing to sync"
	case p.Failed > 0:
		return fmt.Sprintf("%d synced, %d failed — will retry", p.Completed, p.Failed)
	default:
		return fmt.Sprintf("%d synced", p.Completed)
	}
}
