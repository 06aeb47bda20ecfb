package models

// User is a participant known to the remote API. ID is assigned by the server.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
