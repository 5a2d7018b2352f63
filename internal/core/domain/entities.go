package domain

import (
	"time"
)

// Act is a central act with its flattened sections.
type Act struct {
	ActID       string    `json:"act_id"`
	Name        string    `json:"act_name"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
	CreatedAt   time.Time `json:"created_at"`
}

// Section is one numbered section of an act.
type Section struct {
	Number  string `json:"section_number"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Article is an article of the Constitution.
type Article struct {
	ID      string `json:"id"`
	Number  string `json:"article_number"`
	Title   string `json:"title"`
	Part    string `json:"part,omitempty"`
	Content string `json:"content"`
}

// Case is a reported judgment.
type Case struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Citation string `json:"citation,omitempty"`
	Court    string `json:"court"`
	Year     int    `json:"year,omitempty"`
	Summary  string `json:"summary"`
	Category string `json:"category,omitempty"`
}

// Lawyer is a directory entry. Most entries are imported from the Supreme
// Court advocates roster; Synthetic marks the attributes that were generated
// at import time rather than read from the roster.
type Lawyer struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	State            string          `json:"state"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	RegistrationDate *string         `json:"registration_date"`
	FileNumber       *string         `json:"file_number"`
	EnrollmentNumber string          `json:"enrollment_number"`
	Court            string          `json:"court"`
	Languages        []string        `json:"languages"`
	IsSeniorAdvocate bool            `json:"is_senior_advocate"`
	IsVerified       bool            `json:"is_verified"`
	ExperienceYears  int             `json:"experience_years"`
	Rating           float64         `json:"rating"`
	Reviews          int             `json:"reviews"`
	FeePerHour       int             `json:"fee_per_hour"`
	Expertise        string          `json:"expertise"`
	Specializations  []string        `json:"specializations"`
	Description      string          `json:"description"`
	Location         *GeoPoint       `json:"location,omitempty"`
	Synthetic        SyntheticFields `json:"synthetic"`
	DistanceKm       *float64        `json:"distance_km,omitempty"` // computed field
	CreatedAt        time.Time       `json:"created_at"`
}

// SyntheticFields flags lawyer attributes that are placeholders.
type SyntheticFields struct {
	Phone           bool `json:"phone"`
	Email           bool `json:"email"`
	Address         bool `json:"address"`
	ExperienceYears bool `json:"experience_years"`
	Rating          bool `json:"rating"`
	Reviews         bool `json:"reviews"`
	FeePerHour      bool `json:"fee_per_hour"`
	Expertise       bool `json:"expertise"`
	Specializations bool `json:"specializations"`
	Location        bool `json:"location"`
}

// LawyerFilter narrows a directory search. The value "All" for City or
// Expertise means no filter. When Near is set, lawyers without a location
// are dropped and the rest are limited to RadiusKm.
type LawyerFilter struct {
	Search    string    `json:"search,omitempty"`
	City      string    `json:"city,omitempty"`
	Expertise string    `json:"expertise,omitempty"`
	MinRating *float64  `json:"min_rating,omitempty"`
	Near      *GeoPoint `json:"near,omitempty"`
	RadiusKm  float64   `json:"radius_km,omitempty"`
}

// State is an Indian state or union territory.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"` // state | union_territory
}

// District belongs to a state.
type District struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	StateCode string `json:"state_code"`
	StateName string `json:"state_name"`
}

// PoliceStation is either a catalogue entry or a live OSM result.
type PoliceStation struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	DistrictCode string    `json:"district_code,omitempty"`
	DistrictName string    `json:"district_name,omitempty"`
	StateCode    string    `json:"state_code,omitempty"`
	Type         string    `json:"type"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
	Source       string    `json:"source"`                // catalogue | osm
	DistanceKm   *float64  `json:"distance_km,omitempty"` // computed field
}

// FIRStatus is the lifecycle state of a first information report.
type FIRStatus string

const (
	FIRSubmitted          FIRStatus = "submitted"
	FIRAcknowledged       FIRStatus = "acknowledged"
	FIRUnderInvestigation FIRStatus = "under_investigation"
	FIRClosed             FIRStatus = "closed"
	FIRRejected           FIRStatus = "rejected"
)

var firTransitions = map[FIRStatus][]FIRStatus{
	FIRSubmitted:          {FIRAcknowledged, FIRRejected},
	FIRAcknowledged:       {FIRUnderInvestigation, FIRRejected},
	FIRUnderInvestigation: {FIRClosed, FIRRejected},
}

// Valid reports whether s is a known status.
func (s FIRStatus) Valid() bool {
	switch s {
	case FIRSubmitted, FIRAcknowledged, FIRUnderInvestigation, FIRClosed, FIRRejected:
		return true
	}
	return false
}

// CanTransition reports whether an FIR may move from s to next. Closed and
// rejected are terminal.
func (s FIRStatus) CanTransition(next FIRStatus) bool {
	for _, n := range firTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// FIR is a first information report filed by a citizen.
type FIR struct {
	ID               string            `json:"fir_id"`
	ComplainantName  string            `json:"complainant_name"`
	Phone            string            `json:"phone,omitempty"`
	Email            string            `json:"email,omitempty"`
	Address          string            `json:"address,omitempty"`
	StateCode        string            `json:"state_code"`
	DistrictCode     string            `json:"district_code"`
	StationCode      string            `json:"police_station_code,omitempty"`
	IncidentType     string            `json:"incident_type"`
	IncidentDate     time.Time         `json:"incident_date"`
	IncidentLocation string            `json:"incident_location,omitempty"`
	Description      string            `json:"description"`
	Status           FIRStatus         `json:"status"`
	History          []FIRStatusChange `json:"history,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Public returns a copy without the complainant's contact details.
func (f FIR) Public() FIR {
	f.Phone, f.Email, f.Address = "", "", ""
	return f
}

// FIRStatusChange is one entry in an FIR's status history.
type FIRStatusChange struct {
	From FIRStatus `json:"from"`
	To   FIRStatus `json:"to"`
	Note string    `json:"note,omitempty"`
	At   time.Time `json:"at"`
}

// User is the local profile of an identity-provider account.
type User struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is returned by a successful sign-in.
type Session struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenInfo is the verified content of an ID token.
type TokenInfo struct {
	UID    string         `json:"uid"`
	Email  string         `json:"email,omitempty"`
	Claims map[string]any `json:"claims"`
}
