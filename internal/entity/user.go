package entity

import (
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserLoginData is what the token middleware extracts from a verified
// access token. The ledger trusts this uid for scoping every operation.
type UserLoginData struct {
	ID    string
	Email string
}
