package models

import "time"

// ClassificationOption is one allowed label within an owner's namespace.
// Labels are unique per owner (case-sensitive); Seq preserves insertion
// order for listings.
type ClassificationOption struct {
	Seq       int64     `db:"seq" json:"-"`
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DefaultClassificationOptions is the fixed set seeded on an owner's first
// access to the options registry.
var DefaultClassificationOptions = []string{
	"Driver License",
	"Passport",
	"Invoice",
	"Contract",
}
