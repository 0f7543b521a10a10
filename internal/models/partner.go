package models

// Partner is an entry in the partner roster.
type Partner struct {
	// ID is the unique identifier for the partner (UUID format).
	ID string `json:"id"`

	// Name is the display name of the partner.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the partner was added.
	CreatedAt int64 `json:"createdAt"`
}
