package types

// UserInfo is the remote-sourced profile of the signed-in user.
type UserInfo struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
	Points   int    `json:"points"`
}
