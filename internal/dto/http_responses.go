package dto

import (
	"strings"
	"time"

	"github.com/wb-go/wbf/ginext"

	"rsvpbook/internal/report"
)

const (
	FieldIncorrect     = "FIELD_INCORRECT"
	MissingHeaders     = "MISSING_HEADERS"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	FamilyNotFound = "FAMILY_NOT_FOUND"
	GuestNotFound  = "GUEST_NOT_FOUND"
)

type GuestInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	IsChild   bool   `json:"is_child"`
}

type CreateFamilyRequest struct {
	FamilyName   string       `json:"family_name" validate:"required"`
	ContactEmail string       `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string       `json:"contact_phone"`
	Guests       []GuestInput `json:"guests" validate:"dive"`
}

type CreateFamilyResponse struct {
	FamilyID   int64  `json:"family_id"`
	UniqueCode string `json:"unique_code"`
}

type AddGuestRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	IsChild   bool   `json:"is_child"`
}

type GuestResponseInput struct {
	GuestID             int64  `json:"guest_id" validate:"required"`
	WillAttend          *bool  `json:"will_attend" validate:"required"`
	DietaryRestrictions string `json:"dietary_restrictions"`
}

type SubmitRSVPRequest struct {
	GuestResponses []GuestResponseInput `json:"guest_responses" validate:"required,min=1,dive"`
}

type ImportRequest struct {
	CSVData string `json:"csv_data" validate:"required"`
}

type ImportResponse struct {
	FamiliesCreated int `json:"families_created"`
	GuestsCreated   int `json:"guests_created"`
}

type UpsertWeddingDetailsRequest struct {
	BrideName      string `json:"bride_name" validate:"required"`
	GroomName      string `json:"groom_name" validate:"required"`
	WeddingDate    string `json:"wedding_date" validate:"required"`
	Venue          string `json:"venue" validate:"required"`
	VenueAddress   string `json:"venue_address" validate:"required"`
	CeremonyTime   string `json:"ceremony_time" validate:"required"`
	ReceptionTime  string `json:"reception_time" validate:"required"`
	DressCode      string `json:"dress_code"`
	AdditionalInfo string `json:"additional_info"`
}

type UpsertWeddingDetailsResponse struct {
	ID int64 `json:"id"`
}

type GuestView struct {
	ID                  int64  `json:"id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	IsChild             bool   `json:"is_child"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
	WillAttend          *bool  `json:"will_attend"`
}

type FamilyView struct {
	ID              int64       `json:"id"`
	FamilyName      string      `json:"family_name"`
	UniqueCode      string      `json:"unique_code"`
	ContactEmail    string      `json:"contact_email,omitempty"`
	ContactPhone    string      `json:"contact_phone,omitempty"`
	RSVPSubmitted   bool        `json:"rsvp_submitted"`
	RSVPSubmittedAt *time.Time  `json:"rsvp_submitted_at,omitempty"`
	Guests          []GuestView `json:"guests"`
}

// FamilyAdminView is the admin list entry: family, guests, and the computed
// attendance summary.
type FamilyAdminView struct {
	FamilyView
	report.Summary
}

// ReminderMessage is the payload carried through RabbitMQ. A zero Delay
// marks a just-submitted RSVP that needs a confirmation mail; a delayed
// message is an RSVP reminder that only fires if the family still has not
// answered by the time the broker releases it.
type ReminderMessage struct {
	FamilyID  int64     `json:"family_id"`
	Kind      string    `json:"kind"` // "confirmation" or "reminder"
	ExpireAt  time.Time `json:"expire_at"`
	Requested time.Time `json:"requested"`
}

type SuccessFlagResponse struct {
	Success bool `json:"success"`
}

type AddGuestResponse struct {
	GuestID int64 `json:"guest_id"`
}

type SeedResponse struct {
	DetailsSeeded  bool `json:"details_seeded"`
	FamiliesSeeded bool `json:"families_seeded"`
}

type ReminderScheduledResponse struct {
	FamilyID int64     `json:"family_id"`
	ExpireAt time.Time `json:"expire_at"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func FamilyNotFoundError(c *ginext.Context) {
	NotFoundError(c, FamilyNotFound, "Family not found")
}

func GuestNotFoundError(c *ginext.Context) {
	NotFoundError(c, GuestNotFound, "Guest not found")
}

func MissingHeadersError(c *ginext.Context, headers []string) {
	BadResponseError(c, MissingHeaders, "Missing required headers: "+strings.Join(headers, ", "))
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
