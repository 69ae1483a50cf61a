package report

import "rsvpbook/internal/model"

// Summary holds attendance counts for one family's guest list. The three
// answer counts always partition TotalGuests: every guest is attending,
// not attending, or has not answered.
type Summary struct {
	TotalGuests    int `json:"total_guests"`
	AttendingCount int `json:"attending_count"`
	NotAttending   int `json:"not_attending_count"`
	PendingCount   int `json:"pending_count"`
}

// Totals is the event-wide roll-up shown on the admin dashboard.
type Totals struct {
	Summary
	FamilyCount       int `json:"family_count"`
	SubmittedFamilies int `json:"submitted_families"`
}

// Summarize computes attendance counts for one guest list. Counts are
// recomputed from scratch on every read, never cached.
func Summarize(guests []model.Guest) Summary {
	s := Summary{TotalGuests: len(guests)}
	for _, g := range guests {
		switch {
		case g.WillAttend == nil:
			s.PendingCount++
		case *g.WillAttend:
			s.AttendingCount++
		default:
			s.NotAttending++
		}
	}
	return s
}

// GlobalTotals rolls per-family guest lists up into event-wide counts.
func GlobalTotals(families []model.Family, guestsByFamily map[int64][]model.Guest) Totals {
	t := Totals{FamilyCount: len(families)}
	for _, f := range families {
		s := Summarize(guestsByFamily[f.ID])
		t.TotalGuests += s.TotalGuests
		t.AttendingCount += s.AttendingCount
		t.NotAttending += s.NotAttending
		t.PendingCount += s.PendingCount
		if f.RSVPSubmitted {
			t.SubmittedFamilies++
		}
	}
	return t
}
