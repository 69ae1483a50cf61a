package model

import "time"

type Family struct {
	ID              int64      `db:"id" json:"id"`
	FamilyName      string     `db:"family_name" json:"family_name"`
	UniqueCode      string     `db:"unique_code" json:"unique_code"`
	ContactEmail    string     `db:"contact_email,omitempty" json:"contact_email,omitempty"`
	ContactPhone    string     `db:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	RSVPSubmitted   bool       `db:"rsvp_submitted" json:"rsvp_submitted"`
	RSVPSubmittedAt *time.Time `db:"rsvp_submitted_at,omitempty" json:"rsvp_submitted_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type Guest struct {
	ID                  int64     `db:"id" json:"id"`
	FamilyID            int64     `db:"family_id" json:"family_id"`
	FirstName           string    `db:"first_name" json:"first_name"`
	LastName            string    `db:"last_name" json:"last_name"`
	IsChild             bool      `db:"is_child" json:"is_child"`
	DietaryRestrictions string    `db:"dietary_restrictions,omitempty" json:"dietary_restrictions,omitempty"`
	WillAttend          *bool     `db:"will_attend,omitempty" json:"will_attend,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

type WeddingDetails struct {
	ID             int64     `db:"id" json:"id"`
	BrideName      string    `db:"bride_name" json:"bride_name"`
	GroomName      string    `db:"groom_name" json:"groom_name"`
	WeddingDate    string    `db:"wedding_date" json:"wedding_date"`
	Venue          string    `db:"venue" json:"venue"`
	VenueAddress   string    `db:"venue_address" json:"venue_address"`
	CeremonyTime   string    `db:"ceremony_time" json:"ceremony_time"`
	ReceptionTime  string    `db:"reception_time" json:"reception_time"`
	DressCode      string    `db:"dress_code,omitempty" json:"dress_code,omitempty"`
	AdditionalInfo string    `db:"additional_info,omitempty" json:"additional_info,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// GuestResponse is one guest's answer inside an RSVP submission.
// A nil WillAttend on the stored Guest means the guest has not answered yet;
// a response always carries an explicit answer.
type GuestResponse struct {
	GuestID             int64  `json:"guest_id"`
	WillAttend          bool   `json:"will_attend"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
}
