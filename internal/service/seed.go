package service

import (
	"context"
	"fmt"

	"rsvpbook/internal/model"
	"rsvpbook/pkg/code"
)

var defaultWeddingDetails = model.WeddingDetails{
	BrideName:      "Sarah",
	GroomName:      "Michael",
	WeddingDate:    "June 15, 2024",
	Venue:          "Garden Manor Estate",
	VenueAddress:   "123 Rose Garden Lane, Countryside, CA 90210",
	CeremonyTime:   "4:00 PM",
	ReceptionTime:  "6:00 PM",
	DressCode:      "Cocktail Attire",
	AdditionalInfo: "Join us for an evening of love, laughter, and celebration!",
}

type sampleFamily struct {
	familyName   string
	contactEmail string
	guests       []model.Guest
}

var sampleFamilies = []sampleFamily{
	{
		familyName:   "The Johnson Family",
		contactEmail: "johnson@email.com",
		guests: []model.Guest{
			{FirstName: "Robert", LastName: "Johnson"},
			{FirstName: "Linda", LastName: "Johnson"},
			{FirstName: "Emma", LastName: "Johnson", IsChild: true},
		},
	},
	{
		familyName:   "The Smith Family",
		contactEmail: "smith@email.com",
		guests: []model.Guest{
			{FirstName: "David", LastName: "Smith"},
			{FirstName: "Jennifer", LastName: "Smith"},
		},
	},
	{
		familyName:   "The Williams Family",
		contactEmail: "williams@email.com",
		guests: []model.Guest{
			{FirstName: "James", LastName: "Williams"},
			{FirstName: "Mary", LastName: "Williams"},
			{FirstName: "Alex", LastName: "Williams", IsChild: true},
			{FirstName: "Sophie", LastName: "Williams", IsChild: true},
		},
	},
}

// SeedBaseline ensures the baseline state exists: default wedding details
// when none are stored, and the three sample families when the roster is
// empty. Both checks are independent; a second call finds both present and
// does nothing. Invoked explicitly (startup flag or the setup endpoint),
// never as an import side effect.
func (s *service) SeedBaseline(ctx context.Context) (bool, bool, error) {
	detailsSeeded := false
	details, err := s.repo.GetWeddingDetails(ctx)
	if err != nil {
		return false, false, fmt.Errorf("failed to check wedding details: %w", err)
	}
	if details == nil {
		d := defaultWeddingDetails
		if _, err := s.repo.UpsertWeddingDetailsTx(ctx, &d); err != nil {
			return false, false, fmt.Errorf("failed to seed wedding details: %w", err)
		}
		detailsSeeded = true
	}

	familiesSeeded := false
	count, err := s.repo.CountFamilies(ctx)
	if err != nil {
		return detailsSeeded, false, fmt.Errorf("failed to count families: %w", err)
	}
	if count == 0 {
		for _, sample := range sampleFamilies {
			family := &model.Family{
				FamilyName:   sample.familyName,
				UniqueCode:   code.Generate(),
				ContactEmail: sample.contactEmail,
			}
			if _, err := s.repo.CreateFamilyTx(ctx, family, sample.guests); err != nil {
				return detailsSeeded, false, fmt.Errorf("failed to seed family %s: %w", sample.familyName, err)
			}
		}
		familiesSeeded = true
	}

	if detailsSeeded || familiesSeeded {
		s.log.Info().
			Bool("details_seeded", detailsSeeded).
			Bool("families_seeded", familiesSeeded).
			Msg("baseline data seeded")
	}

	return detailsSeeded, familiesSeeded, nil
}
