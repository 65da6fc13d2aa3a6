// Package models defines data shapes mirrored from the admin API.
package models

import "fmt"

// User is a read-only mirror of a server-owned user record. The server is
// the sole source of truth; local copies are discarded and re-fetched after
// any acknowledged mutation.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsActive  bool   `json:"is_active"`
}

func (u User) String() string {
	status := "inactive"
	if u.IsActive {
		status = "active"
	}
	return fmt.Sprintf("#%d %s <%s> %s %s [%s]", u.ID, u.Username, u.Email, u.FirstName, u.LastName, status)
}
