package domain

import "time"

// Customer and Personnel are reference entities. The engine consults them for
// id -> name/phone/address lookups when denormalizing records.

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}

type Personnel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}
