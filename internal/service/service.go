package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"rsvpbook/internal/csvimport"
	"rsvpbook/internal/dto"
	"rsvpbook/internal/model"
	"rsvpbook/internal/qr"
	"rsvpbook/internal/report"
	"rsvpbook/internal/repo"
	"rsvpbook/pkg/code"
	"rsvpbook/pkg/validator"
)

type Service interface {
	LookupFamilyByCode(ctx *ginext.Context)
	SubmitRSVP(ctx *ginext.Context)
	ListAllFamilies(ctx *ginext.Context)
	GetReport(ctx *ginext.Context)
	CreateFamily(ctx *ginext.Context)
	AddGuest(ctx *ginext.Context)
	RemoveGuest(ctx *ginext.Context)
	ImportFamilies(ctx *ginext.Context)
	GetWeddingDetails(ctx *ginext.Context)
	UpsertWeddingDetails(ctx *ginext.Context)
	InitializeSampleData(ctx *ginext.Context)
	FamilyQR(ctx *ginext.Context)
	ScheduleReminder(ctx *ginext.Context)
	SeedBaseline(ctx context.Context) (detailsSeeded, familiesSeeded bool, err error)
}

// Publisher is the slice of the RabbitMQ client the service needs.
type Publisher interface {
	PublishMail(msg dto.ReminderMessage, delaySeconds int) error
}

// Options carries the non-collaborator knobs of the service.
type Options struct {
	PublicURL            string
	ReminderDelayMinutes int
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	rbt  Publisher
	opts Options
}

func NewService(repo repo.Repository, logger *zerolog.Logger, rbt Publisher, opts Options) Service {
	return &service{
		repo: repo,
		log:  logger,
		rbt:  rbt,
		opts: opts,
	}
}

type codeParam struct {
	Code string `validate:"required,famcode"`
}

// LookupFamilyByCode resolves an invitation code to the family and its
// guests. This is the only read the public guest flow performs; anything
// that does not match a stored code exactly is a not-found, never an
// enumeration hint.
func (s *service) LookupFamilyByCode(ctx *ginext.Context) {
	p := codeParam{Code: ctx.Param("code")}
	if verr := validator.Validate(ctx, p); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	family, err := s.repo.GetFamilyByCode(ctx.Request.Context(), p.Code)
	if err != nil {
		if errors.Is(err, repo.ErrFamilyNotFound) {
			dto.FamilyNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to look up family by code")
		dto.InternalServerError(ctx)
		return
	}

	guests, err := s.repo.GetGuestsByFamilyID(ctx.Request.Context(), family.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get guests for family")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, familyView(family, guests))
}

func (s *service) SubmitRSVP(ctx *ginext.Context) {
	familyID, ok := parseIDParam(ctx, "id", "family")
	if !ok {
		return
	}

	var req dto.SubmitRSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse submit RSVP request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	responses := make([]model.GuestResponse, 0, len(req.GuestResponses))
	for _, gr := range req.GuestResponses {
		responses = append(responses, model.GuestResponse{
			GuestID:             gr.GuestID,
			WillAttend:          *gr.WillAttend,
			DietaryRestrictions: gr.DietaryRestrictions,
		})
	}

	if err := s.repo.SubmitRSVPTx(ctx.Request.Context(), familyID, responses); err != nil {
		switch {
		case errors.Is(err, repo.ErrFamilyNotFound):
			dto.FamilyNotFoundError(ctx)
		case errors.Is(err, repo.ErrGuestNotFound):
			dto.GuestNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to submit RSVP")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().Int64("family_id", familyID).Int("responses", len(responses)).Msg("RSVP submitted")

	s.publishMail(familyID, "confirmation", 0)

	dto.SuccessResponse(ctx, dto.SuccessFlagResponse{Success: true})
}

func (s *service) ListAllFamilies(ctx *ginext.Context) {
	families, err := s.repo.GetAllFamilies(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get families")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.FamilyAdminView, 0, len(families))
	for _, f := range families {
		guests, err := s.repo.GetGuestsByFamilyID(ctx.Request.Context(), f.ID)
		if err != nil {
			s.log.Error().Err(err).Int64("family_id", f.ID).Msg("failed to get guests for family")
			dto.InternalServerError(ctx)
			return
		}
		resp = append(resp, dto.FamilyAdminView{
			FamilyView: familyView(&f, guests),
			Summary:    report.Summarize(guests),
		})
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetReport(ctx *ginext.Context) {
	families, err := s.repo.GetAllFamilies(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get families for report")
		dto.InternalServerError(ctx)
		return
	}

	guestsByFamily := make(map[int64][]model.Guest, len(families))
	for _, f := range families {
		guests, err := s.repo.GetGuestsByFamilyID(ctx.Request.Context(), f.ID)
		if err != nil {
			s.log.Error().Err(err).Int64("family_id", f.ID).Msg("failed to get guests for report")
			dto.InternalServerError(ctx)
			return
		}
		guestsByFamily[f.ID] = guests
	}

	dto.SuccessResponse(ctx, report.GlobalTotals(families, guestsByFamily))
}

func (s *service) CreateFamily(ctx *ginext.Context) {
	var req dto.CreateFamilyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create family request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if strings.TrimSpace(req.FamilyName) == "" {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Field 'family_name' is required")
		return
	}

	family := &model.Family{
		FamilyName:   strings.TrimSpace(req.FamilyName),
		UniqueCode:   code.Generate(),
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}

	guests := make([]model.Guest, 0, len(req.Guests))
	for _, g := range req.Guests {
		guests = append(guests, model.Guest{
			FirstName: g.FirstName,
			LastName:  g.LastName,
			IsChild:   g.IsChild,
		})
	}

	familyID, err := s.repo.CreateFamilyTx(ctx.Request.Context(), family, guests)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create family in DB")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("family_id", familyID).Str("code", family.UniqueCode).Msg("family created successfully")

	dto.SuccessCreatedResponse(ctx, dto.CreateFamilyResponse{
		FamilyID:   familyID,
		UniqueCode: family.UniqueCode,
	})
}

func (s *service) AddGuest(ctx *ginext.Context) {
	familyID, ok := parseIDParam(ctx, "id", "family")
	if !ok {
		return
	}

	var req dto.AddGuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if _, err := s.repo.GetFamilyByID(ctx.Request.Context(), familyID); err != nil {
		if errors.Is(err, repo.ErrFamilyNotFound) {
			dto.FamilyNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get family for add guest")
		dto.InternalServerError(ctx)
		return
	}

	guestID, err := s.repo.AddGuest(ctx.Request.Context(), &model.Guest{
		FamilyID:  familyID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsChild:   req.IsChild,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to add guest")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessCreatedResponse(ctx, dto.AddGuestResponse{GuestID: guestID})
}

func (s *service) RemoveGuest(ctx *ginext.Context) {
	guestID, ok := parseIDParam(ctx, "id", "guest")
	if !ok {
		return
	}

	if err := s.repo.DeleteGuest(ctx.Request.Context(), guestID); err != nil {
		if errors.Is(err, repo.ErrGuestNotFound) {
			dto.GuestNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete guest")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.SuccessFlagResponse{Success: true})
}

// ImportFamilies creates one family per distinct family name in the
// uploaded text, each with a fresh code. Families are committed one at a
// time; a failure partway leaves the families created so far in place.
func (s *service) ImportFamilies(ctx *ginext.Context) {
	var req dto.ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	groups, err := csvimport.Parse(req.CSVData)
	if err != nil {
		var mh *csvimport.MissingHeadersError
		if errors.As(err, &mh) {
			dto.MissingHeadersError(ctx, mh.Headers)
			return
		}
		s.log.Error().Err(err).Msg("failed to parse import data")
		dto.InternalServerError(ctx)
		return
	}

	familiesCreated := 0
	guestsCreated := 0
	for _, group := range groups {
		family := &model.Family{
			FamilyName:   group.FamilyName,
			UniqueCode:   code.Generate(),
			ContactEmail: group.ContactEmail,
		}
		guests := make([]model.Guest, 0, len(group.Guests))
		for _, g := range group.Guests {
			guests = append(guests, model.Guest{
				FirstName: g.FirstName,
				LastName:  g.LastName,
				IsChild:   g.IsChild,
			})
		}

		if _, err := s.repo.CreateFamilyTx(ctx.Request.Context(), family, guests); err != nil {
			s.log.Error().Err(err).Str("family_name", group.FamilyName).
				Int("families_created", familiesCreated).
				Msg("import failed partway; earlier families are kept")
			dto.InternalServerError(ctx)
			return
		}
		familiesCreated++
		guestsCreated += len(guests)
	}

	s.log.Info().Int("families", familiesCreated).Int("guests", guestsCreated).Msg("import completed")

	dto.SuccessResponse(ctx, dto.ImportResponse{
		FamiliesCreated: familiesCreated,
		GuestsCreated:   guestsCreated,
	})
}

func (s *service) GetWeddingDetails(ctx *ginext.Context) {
	details, err := s.repo.GetWeddingDetails(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get wedding details")
		dto.InternalServerError(ctx)
		return
	}

	// Absent details is a valid state before setup. An untyped nil keeps
	// the data field out of the envelope; a typed nil pointer would
	// serialize as an explicit "data": null.
	if details == nil {
		dto.SuccessResponse(ctx, nil)
		return
	}
	dto.SuccessResponse(ctx, details)
}

func (s *service) UpsertWeddingDetails(ctx *ginext.Context) {
	var req dto.UpsertWeddingDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	id, err := s.repo.UpsertWeddingDetailsTx(ctx.Request.Context(), &model.WeddingDetails{
		BrideName:      req.BrideName,
		GroomName:      req.GroomName,
		WeddingDate:    req.WeddingDate,
		Venue:          req.Venue,
		VenueAddress:   req.VenueAddress,
		CeremonyTime:   req.CeremonyTime,
		ReceptionTime:  req.ReceptionTime,
		DressCode:      req.DressCode,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to upsert wedding details")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.UpsertWeddingDetailsResponse{ID: id})
}

func (s *service) InitializeSampleData(ctx *ginext.Context) {
	detailsSeeded, familiesSeeded, err := s.SeedBaseline(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to initialize sample data")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.SeedResponse{
		DetailsSeeded:  detailsSeeded,
		FamiliesSeeded: familiesSeeded,
	})
}

func (s *service) FamilyQR(ctx *ginext.Context) {
	familyID, ok := parseIDParam(ctx, "id", "family")
	if !ok {
		return
	}

	family, err := s.repo.GetFamilyByID(ctx.Request.Context(), familyID)
	if err != nil {
		if errors.Is(err, repo.ErrFamilyNotFound) {
			dto.FamilyNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get family for QR export")
		dto.InternalServerError(ctx)
		return
	}

	size, _ := strconv.Atoi(ctx.Query("size"))
	png, err := qr.GenerateInviteQR(s.opts.PublicURL, family.UniqueCode, size)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate QR code")
		dto.InternalServerError(ctx)
		return
	}

	ctx.Data(200, "image/png", png)
}

// ScheduleReminder queues a delayed reminder e-mail for a family. The
// worker re-checks the submitted flag when the message fires, so reminders
// scheduled before a family answers do no harm.
func (s *service) ScheduleReminder(ctx *ginext.Context) {
	familyID, ok := parseIDParam(ctx, "id", "family")
	if !ok {
		return
	}

	family, err := s.repo.GetFamilyByID(ctx.Request.Context(), familyID)
	if err != nil {
		if errors.Is(err, repo.ErrFamilyNotFound) {
			dto.FamilyNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to get family for reminder")
		dto.InternalServerError(ctx)
		return
	}

	if family.RSVPSubmitted {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Family has already submitted their RSVP")
		return
	}

	delaySeconds := s.opts.ReminderDelayMinutes * 60
	s.publishMail(familyID, "reminder", delaySeconds)

	dto.SuccessResponse(ctx, dto.ReminderScheduledResponse{
		FamilyID: familyID,
		ExpireAt: time.Now().Add(time.Duration(delaySeconds) * time.Second),
	})
}

func (s *service) publishMail(familyID int64, kind string, delaySeconds int) {
	msg := dto.ReminderMessage{
		FamilyID:  familyID,
		Kind:      kind,
		ExpireAt:  time.Now().Add(time.Duration(delaySeconds) * time.Second),
		Requested: time.Now(),
	}
	if err := s.rbt.PublishMail(msg, delaySeconds); err != nil {
		s.log.Error().Err(err).Str("kind", kind).Msg("failed to publish mail message to RabbitMQ")
	}
}

// parseIDParam is the validating boundary for record identifiers: anything
// that is not a positive integer is rejected before the store is touched.
func parseIDParam(ctx *ginext.Context, name, entity string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid "+entity+" ID")
		return 0, false
	}
	return id, true
}

func familyView(f *model.Family, guests []model.Guest) dto.FamilyView {
	views := make([]dto.GuestView, 0, len(guests))
	for _, g := range guests {
		views = append(views, dto.GuestView{
			ID:                  g.ID,
			FirstName:           g.FirstName,
			LastName:            g.LastName,
			IsChild:             g.IsChild,
			DietaryRestrictions: g.DietaryRestrictions,
			WillAttend:          g.WillAttend,
		})
	}
	return dto.FamilyView{
		ID:              f.ID,
		FamilyName:      f.FamilyName,
		UniqueCode:      f.UniqueCode,
		ContactEmail:    f.ContactEmail,
		ContactPhone:    f.ContactPhone,
		RSVPSubmitted:   f.RSVPSubmitted,
		RSVPSubmittedAt: f.RSVPSubmittedAt,
		Guests:          views,
	}
}
