package types

// PointRecord is one entry of the user's point ledger, remote-sourced.
type PointRecord struct {
	ID        string `json:"id"`
	Points    int    `json:"points"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

// Reward is an item points can be exchanged for, remote-sourced.
type Reward struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
