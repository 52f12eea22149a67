package identity

import (
	"time"

	"talentgate/pkg/domain"
)

// User is the primary identity record. Created out-of-band normally, or
// inline by the anonymous-application path.
type User struct {
	ID           domain.UserID
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile carries the candidate's CV-derived data. Enriched in place by the
// analysis callback; structured child records are replaced wholesale on each
// callback to avoid duplicate accumulation.
type Profile struct {
	ID        domain.ProfileID
	UserID    domain.UserID
	ResumeURL string
	Skills    []string
	LinkedIn  string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkExperience is a structured child record of a profile.
type WorkExperience struct {
	Company   string
	Title     string
	StartYear int
	EndYear   int
	Summary   string
}

// Education is a structured child record of a profile.
type Education struct {
	Institution string
	Degree      string
	Field       string
	EndYear     int
}
