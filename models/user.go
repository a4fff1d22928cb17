package models

import (
	"time"
)

// User is the profile row for a provisioned account. The row is
// authoritative for role and jurisdiction assignment; credentials live
// on the identity record, not here.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	FullName     string    `bson:"full_name" json:"full_name"`
	Role         string    `bson:"role" json:"role"`
	DistrictCode string    `bson:"district_code,omitempty" json:"district_code,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
