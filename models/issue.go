package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssuePriority enum, stored lower-case
type IssuePriority string

const (
	PriorityLow      IssuePriority = "low"
	PriorityMedium   IssuePriority = "medium"
	PriorityHigh     IssuePriority = "high"
	PriorityCritical IssuePriority = "critical"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusRejected   IssueStatus = "rejected"
)

// NormalizePriority lower-cases the input and reports whether it is a
// known priority value.
func NormalizePriority(raw string) (IssuePriority, bool) {
	switch p := IssuePriority(strings.ToLower(strings.TrimSpace(raw))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, true
	default:
		return "", false
	}
}

// ValidStatus reports whether raw is a known issue status.
func ValidStatus(raw string) (IssueStatus, bool) {
	switch s := IssueStatus(raw); s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// Issue represents a civic problem reported by a citizen
type Issue struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                  string             `bson:"title" json:"title"`
	Description            string             `bson:"description" json:"description"`
	Address                string             `bson:"address" json:"address"`
	LocationLat            *float64           `bson:"location_lat,omitempty" json:"location_lat,omitempty"`
	LocationLng            *float64           `bson:"location_lng,omitempty" json:"location_lng,omitempty"`
	AICategory             string             `bson:"ai_category" json:"ai_category"`
	AIConfidence           *float64           `bson:"ai_confidence" json:"ai_confidence"`
	Priority               IssuePriority      `bson:"priority" json:"priority"`
	Status                 IssueStatus        `bson:"status" json:"status"`
	DistrictCode           string             `bson:"district_code" json:"district_code"`
	ReporterID             string             `bson:"reporter_id" json:"reporter_id"`
	ReporterName           string             `bson:"reporter_name,omitempty" json:"reporter_name,omitempty"`
	ReporterPhone          string             `bson:"reporter_phone,omitempty" json:"reporter_phone,omitempty"`
	ReporterAadhar         string             `bson:"reporter_aadhar,omitempty" json:"reporter_aadhar,omitempty"`
	ImageURL               string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	AssignedMunicipalityID *string            `bson:"assigned_municipality_id,omitempty" json:"assigned_municipality_id,omitempty"`
	CreatedAt              time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time          `bson:"updated_at" json:"updated_at"`
}

// IssueUpdate carries the fields a lifecycle PATCH may change. Nil
// members are left untouched.
type IssueUpdate struct {
	Status                 *IssueStatus
	Priority               *IssuePriority
	AssignedMunicipalityID *string
}

// Empty reports whether the update would change nothing.
func (u IssueUpdate) Empty() bool {
	return u.Status == nil && u.Priority == nil && u.AssignedMunicipalityID == nil
}
