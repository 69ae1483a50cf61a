package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"

	"rsvpbook/internal/api/api"
	"rsvpbook/internal/dto"
	"rsvpbook/internal/model"
	"rsvpbook/internal/repo"
	"rsvpbook/internal/service"
)

// fakeRepo is an in-memory Repository with the same not-found and
// atomicity semantics as the Postgres implementation.
type fakeRepo struct {
	families     map[int64]*model.Family
	guests       map[int64]*model.Guest
	details      *model.WeddingDetails
	nextFamilyID int64
	nextGuestID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		families: make(map[int64]*model.Family),
		guests:   make(map[int64]*model.Guest),
	}
}

func (f *fakeRepo) CreateFamilyTx(_ context.Context, fam *model.Family, guests []model.Guest) (int64, error) {
	for _, existing := range f.families {
		if existing.UniqueCode == fam.UniqueCode {
			return 0, fmt.Errorf("duplicate code %s", fam.UniqueCode)
		}
	}
	f.nextFamilyID++
	stored := *fam
	stored.ID = f.nextFamilyID
	f.families[stored.ID] = &stored
	for _, g := range guests {
		f.nextGuestID++
		sg := g
		sg.ID = f.nextGuestID
		sg.FamilyID = stored.ID
		f.guests[sg.ID] = &sg
	}
	return stored.ID, nil
}

func (f *fakeRepo) GetFamilyByID(_ context.Context, id int64) (*model.Family, error) {
	fam, ok := f.families[id]
	if !ok {
		return nil, repo.ErrFamilyNotFound
	}
	copied := *fam
	return &copied, nil
}

func (f *fakeRepo) GetFamilyByCode(_ context.Context, code string) (*model.Family, error) {
	for _, fam := range f.families {
		if fam.UniqueCode == code {
			copied := *fam
			return &copied, nil
		}
	}
	return nil, repo.ErrFamilyNotFound
}

func (f *fakeRepo) GetAllFamilies(_ context.Context) ([]model.Family, error) {
	ids := make([]int64, 0, len(f.families))
	for id := range f.families {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Family, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.families[id])
	}
	return out, nil
}

func (f *fakeRepo) CountFamilies(_ context.Context) (int, error) {
	return len(f.families), nil
}

func (f *fakeRepo) GetGuestsByFamilyID(_ context.Context, familyID int64) ([]model.Guest, error) {
	var out []model.Guest
	for _, g := range f.guests {
		if g.FamilyID == familyID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) GetGuestByID(_ context.Context, id int64) (*model.Guest, error) {
	g, ok := f.guests[id]
	if !ok {
		return nil, repo.ErrGuestNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeRepo) AddGuest(_ context.Context, g *model.Guest) (int64, error) {
	f.nextGuestID++
	sg := *g
	sg.ID = f.nextGuestID
	f.guests[sg.ID] = &sg
	return sg.ID, nil
}

func (f *fakeRepo) DeleteGuest(_ context.Context, id int64) error {
	if _, ok := f.guests[id]; !ok {
		return repo.ErrGuestNotFound
	}
	delete(f.guests, id)
	return nil
}

func (f *fakeRepo) SubmitRSVPTx(_ context.Context, familyID int64, responses []model.GuestResponse) error {
	fam, ok := f.families[familyID]
	if !ok {
		return repo.ErrFamilyNotFound
	}
	// All-or-nothing: validate every response before touching state.
	for _, r := range responses {
		g, ok := f.guests[r.GuestID]
		if !ok || g.FamilyID != familyID {
			return repo.ErrGuestNotFound
		}
	}
	now := time.Now()
	fam.RSVPSubmitted = true
	fam.RSVPSubmittedAt = &now
	for _, r := range responses {
		g := f.guests[r.GuestID]
		attend := r.WillAttend
		g.WillAttend = &attend
		g.DietaryRestrictions = r.DietaryRestrictions
	}
	return nil
}

func (f *fakeRepo) GetWeddingDetails(_ context.Context) (*model.WeddingDetails, error) {
	if f.details == nil {
		return nil, nil
	}
	copied := *f.details
	return &copied, nil
}

func (f *fakeRepo) UpsertWeddingDetailsTx(_ context.Context, d *model.WeddingDetails) (int64, error) {
	stored := *d
	if f.details != nil {
		stored.ID = f.details.ID
	} else {
		stored.ID = 1
	}
	f.details = &stored
	return stored.ID, nil
}

func (f *fakeRepo) MigrateUp(string) error   { return nil }
func (f *fakeRepo) MigrateDown(string) error { return nil }

type fakePublisher struct {
	messages []publishedMessage
}

type publishedMessage struct {
	msg          dto.ReminderMessage
	delaySeconds int
}

func (p *fakePublisher) PublishMail(msg dto.ReminderMessage, delaySeconds int) error {
	p.messages = append(p.messages, publishedMessage{msg: msg, delaySeconds: delaySeconds})
	return nil
}

type envelope struct {
	Status string `json:"status"`
	Error  *struct {
		Code string `json:"code"`
		Desc string `json:"desc"`
	} `json:"error"`
	Data json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*fakeRepo, *fakePublisher, http.Handler) {
	t.Helper()
	zlog.Init()
	fr := newFakeRepo()
	fp := &fakePublisher{}
	log := zerolog.Nop()
	svc := service.NewService(fr, &log, fp, service.Options{
		PublicURL:            "https://wedding.example.com",
		ReminderDelayMinutes: 30,
	})
	return fr, fp, api.NewRouters(&api.Routers{Service: svc})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "image/png" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func seedFamily(t *testing.T, fr *fakeRepo, name, code string, guestNames ...string) (int64, []int64) {
	t.Helper()
	guests := make([]model.Guest, 0, len(guestNames))
	for _, n := range guestNames {
		guests = append(guests, model.Guest{FirstName: n, LastName: "Test"})
	}
	familyID, err := fr.CreateFamilyTx(context.Background(), &model.Family{
		FamilyName:   name,
		UniqueCode:   code,
		ContactEmail: "family@example.com",
	}, guests)
	require.NoError(t, err)

	stored, err := fr.GetGuestsByFamilyID(context.Background(), familyID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(stored))
	for _, g := range stored {
		ids = append(ids, g.ID)
	}
	return familyID, ids
}

func TestLookupFamilyByCode(t *testing.T) {
	fr, _, router := newTestRouter(t)
	seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane", "Jack")

	w, env := doJSON(t, router, http.MethodGet, "/v1/rsvp/AB12CD", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view dto.FamilyView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "The Doe Family", view.FamilyName)
	assert.Equal(t, "AB12CD", view.UniqueCode)
	require.Len(t, view.Guests, 2)
	assert.Equal(t, "Jane", view.Guests[0].FirstName)
	assert.Nil(t, view.Guests[0].WillAttend)
}

func TestLookupFamilyByCodeNotFound(t *testing.T) {
	fr, _, router := newTestRouter(t)
	seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane")

	w, env := doJSON(t, router, http.MethodGet, "/v1/rsvp/ZZ99ZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.FamilyNotFound, env.Error.Code)
}

func TestLookupFamilyByCodeRejectsBadFormat(t *testing.T) {
	_, _, router := newTestRouter(t)

	for _, code := range []string{"ab12cd", "TOOLONGCODE", "A1"} {
		w, env := doJSON(t, router, http.MethodGet, "/v1/rsvp/"+code, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "code %q", code)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.FieldIncorrect, env.Error.Code)
	}
}

func TestSubmitRSVPSubsetLeavesOthersUntouched(t *testing.T) {
	fr, fp, router := newTestRouter(t)
	familyID, guestIDs := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane", "Jack")

	attend := true
	w, _ := doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/families/%d/rsvp", familyID), dto.SubmitRSVPRequest{
		GuestResponses: []dto.GuestResponseInput{
			{GuestID: guestIDs[0], WillAttend: &attend, DietaryRestrictions: "vegetarian"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	fam, err := fr.GetFamilyByID(context.Background(), familyID)
	require.NoError(t, err)
	assert.True(t, fam.RSVPSubmitted)
	assert.NotNil(t, fam.RSVPSubmittedAt)

	answered, err := fr.GetGuestByID(context.Background(), guestIDs[0])
	require.NoError(t, err)
	require.NotNil(t, answered.WillAttend)
	assert.True(t, *answered.WillAttend)
	assert.Equal(t, "vegetarian", answered.DietaryRestrictions)

	untouched, err := fr.GetGuestByID(context.Background(), guestIDs[1])
	require.NoError(t, err)
	assert.Nil(t, untouched.WillAttend)

	// A successful submission queues exactly one confirmation message.
	require.Len(t, fp.messages, 1)
	assert.Equal(t, "confirmation", fp.messages[0].msg.Kind)
	assert.Equal(t, familyID, fp.messages[0].msg.FamilyID)
	assert.Equal(t, 0, fp.messages[0].delaySeconds)
}

func TestSubmitRSVPUnknownGuest(t *testing.T) {
	fr, fp, router := newTestRouter(t)
	familyID, guestIDs := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane")

	attend := true
	w, env := doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/families/%d/rsvp", familyID), dto.SubmitRSVPRequest{
		GuestResponses: []dto.GuestResponseInput{
			{GuestID: guestIDs[0], WillAttend: &attend},
			{GuestID: 9999, WillAttend: &attend},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.GuestNotFound, env.Error.Code)

	fam, err := fr.GetFamilyByID(context.Background(), familyID)
	require.NoError(t, err)
	assert.False(t, fam.RSVPSubmitted)
	assert.Empty(t, fp.messages)
}

func TestSubmitRSVPRejectsMalformedID(t *testing.T) {
	_, fp, router := newTestRouter(t)

	attend := true
	w, env := doJSON(t, router, http.MethodPost, "/v1/families/not-a-number/rsvp", dto.SubmitRSVPRequest{
		GuestResponses: []dto.GuestResponseInput{{GuestID: 1, WillAttend: &attend}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.FieldIncorrect, env.Error.Code)
	assert.Empty(t, fp.messages)
}

func TestSubmitRSVPOverwritesOnResubmission(t *testing.T) {
	fr, _, router := newTestRouter(t)
	familyID, guestIDs := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane")

	attend := true
	w, _ := doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/families/%d/rsvp", familyID), dto.SubmitRSVPRequest{
		GuestResponses: []dto.GuestResponseInput{{GuestID: guestIDs[0], WillAttend: &attend}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	declined := false
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/families/%d/rsvp", familyID), dto.SubmitRSVPRequest{
		GuestResponses: []dto.GuestResponseInput{{GuestID: guestIDs[0], WillAttend: &declined}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	g, err := fr.GetGuestByID(context.Background(), guestIDs[0])
	require.NoError(t, err)
	require.NotNil(t, g.WillAttend)
	assert.False(t, *g.WillAttend)
}

func TestCreateFamily(t *testing.T) {
	fr, _, router := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/v1/families", dto.CreateFamilyRequest{
		FamilyName:   "The Roe Family",
		ContactEmail: "roe@example.com",
		Guests: []dto.GuestInput{
			{FirstName: "Rick", LastName: "Roe"},
			{FirstName: "Ruth", LastName: "Roe", IsChild: true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.CreateFamilyResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), resp.UniqueCode)

	guests, err := fr.GetGuestsByFamilyID(context.Background(), resp.FamilyID)
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.False(t, guests[0].IsChild)
	assert.True(t, guests[1].IsChild)
}

func TestCreateFamilyRequiresName(t *testing.T) {
	fr, _, router := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/v1/families", dto.CreateFamilyRequest{
		FamilyName: "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.FieldIncorrect, env.Error.Code)
	assert.Empty(t, fr.families)
}

func TestAddGuest(t *testing.T) {
	fr, _, router := newTestRouter(t)
	familyID, _ := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane")

	w, env := doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/families/%d/guests", familyID), dto.AddGuestRequest{
		FirstName: "June",
		LastName:  "Doe",
		IsChild:   true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.AddGuestResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))

	guests, err := fr.GetGuestsByFamilyID(context.Background(), familyID)
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.Equal(t, "June", guests[1].FirstName)
}

func TestAddGuestFamilyNotFound(t *testing.T) {
	_, _, router := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/v1/families/42/guests", dto.AddGuestRequest{
		FirstName: "June",
		LastName:  "Doe",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.FamilyNotFound, env.Error.Code)
}

func TestRemoveGuest(t *testing.T) {
	fr, _, router := newTestRouter(t)
	familyID, guestIDs := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane", "Jack")

	w, _ := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/guests/%d", guestIDs[0]), nil)
	require.Equal(t, http.StatusOK, w.Code)

	guests, err := fr.GetGuestsByFamilyID(context.Background(), familyID)
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "Jack", guests[0].FirstName)

	w, env := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/guests/%d", guestIDs[0]), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.GuestNotFound, env.Error.Code)
}

func TestImportFamilies(t *testing.T) {
	fr, _, router := newTestRouter(t)

	csv := "Family Name,Guest First Name,Guest Last Name,Is Child\n" +
		"The Doe Family,Jane,Doe,false\n" +
		"The Doe Family,Jack,Doe,true\n"
	w, env := doJSON(t, router, http.MethodPost, "/v1/import", dto.ImportRequest{CSVData: csv})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ImportResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 1, resp.FamiliesCreated)
	assert.Equal(t, 2, resp.GuestsCreated)

	families, err := fr.GetAllFamilies(context.Background())
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.False(t, families[0].RSVPSubmitted)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), families[0].UniqueCode)

	guests, err := fr.GetGuestsByFamilyID(context.Background(), families[0].ID)
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.False(t, guests[0].IsChild)
	assert.True(t, guests[1].IsChild)
}

func TestImportFamiliesMissingHeaders(t *testing.T) {
	fr, _, router := newTestRouter(t)

	csv := "Family Name,Guest First Name,Guest Last Name\n" +
		"The Doe Family,Jane,Doe\n"
	w, env := doJSON(t, router, http.MethodPost, "/v1/import", dto.ImportRequest{CSVData: csv})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.MissingHeaders, env.Error.Code)
	assert.Contains(t, env.Error.Desc, "Is Child")
	assert.Empty(t, fr.families)
}

func TestImportFamiliesSkipsBadRows(t *testing.T) {
	fr, _, router := newTestRouter(t)

	csv := "Family Name,Guest First Name,Guest Last Name,Is Child\n" +
		"The Doe Family,Jane,Doe,false\n" +
		"The Doe Family,Jack\n" +
		"The Doe Family,,Doe,true\n"
	w, env := doJSON(t, router, http.MethodPost, "/v1/import", dto.ImportRequest{CSVData: csv})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ImportResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 1, resp.FamiliesCreated)
	assert.Equal(t, 1, resp.GuestsCreated)
	assert.Len(t, fr.guests, 1)
}

func TestUpsertWeddingDetailsKeepsSingleRecord(t *testing.T) {
	fr, _, router := newTestRouter(t)

	first := dto.UpsertWeddingDetailsRequest{
		BrideName: "Sarah", GroomName: "Michael", WeddingDate: "June 15, 2024",
		Venue: "Garden Manor Estate", VenueAddress: "123 Rose Garden Lane",
		CeremonyTime: "4:00 PM", ReceptionTime: "6:00 PM",
	}
	w, env := doJSON(t, router, http.MethodPut, "/v1/wedding", first)
	require.Equal(t, http.StatusOK, w.Code)
	var created dto.UpsertWeddingDetailsResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	second := first
	second.Venue = "Lakeside Pavilion"
	w, env = doJSON(t, router, http.MethodPut, "/v1/wedding", second)
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.UpsertWeddingDetailsResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, created.ID, updated.ID)

	details, err := fr.GetWeddingDetails(context.Background())
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "Lakeside Pavilion", details.Venue)
}

func TestGetWeddingDetailsAbsent(t *testing.T) {
	_, _, router := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodGet, "/v1/wedding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", env.Status)
	assert.Empty(t, env.Data)
	assert.NotContains(t, w.Body.String(), `"data"`)
}

func TestInitializeSampleDataIsIdempotent(t *testing.T) {
	fr, _, router := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/v1/setup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SeedResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.DetailsSeeded)
	assert.True(t, resp.FamiliesSeeded)
	assert.Len(t, fr.families, 3)
	require.NotNil(t, fr.details)

	w, env = doJSON(t, router, http.MethodPost, "/v1/setup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.False(t, resp.DetailsSeeded)
	assert.False(t, resp.FamiliesSeeded)
	assert.Len(t, fr.families, 3)
}

func TestListAllFamiliesWithCounts(t *testing.T) {
	fr, _, router := newTestRouter(t)
	familyID, guestIDs := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane", "Jack", "June")

	require.NoError(t, fr.SubmitRSVPTx(context.Background(), familyID, []model.GuestResponse{
		{GuestID: guestIDs[0], WillAttend: true},
	}))

	w, env := doJSON(t, router, http.MethodGet, "/v1/families", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []dto.FamilyAdminView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, 3, views[0].TotalGuests)
	assert.Equal(t, 1, views[0].AttendingCount)
	assert.Equal(t, 0, views[0].NotAttending)
	assert.Equal(t, 2, views[0].PendingCount)
	assert.True(t, views[0].RSVPSubmitted)
}

func TestGetReport(t *testing.T) {
	fr, _, router := newTestRouter(t)
	doeID, doeGuests := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane", "Jack")
	seedFamily(t, fr, "The Roe Family", "EF34GH", "Rick")

	require.NoError(t, fr.SubmitRSVPTx(context.Background(), doeID, []model.GuestResponse{
		{GuestID: doeGuests[0], WillAttend: true},
		{GuestID: doeGuests[1], WillAttend: false},
	}))

	w, env := doJSON(t, router, http.MethodGet, "/v1/report", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var totals struct {
		TotalGuests       int `json:"total_guests"`
		AttendingCount    int `json:"attending_count"`
		NotAttending      int `json:"not_attending_count"`
		PendingCount      int `json:"pending_count"`
		FamilyCount       int `json:"family_count"`
		SubmittedFamilies int `json:"submitted_families"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &totals))
	assert.Equal(t, 3, totals.TotalGuests)
	assert.Equal(t, 1, totals.AttendingCount)
	assert.Equal(t, 1, totals.NotAttending)
	assert.Equal(t, 1, totals.PendingCount)
	assert.Equal(t, 2, totals.FamilyCount)
	assert.Equal(t, 1, totals.SubmittedFamilies)
}

func TestFamilyQR(t *testing.T) {
	fr, _, router := newTestRouter(t)
	familyID, _ := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/families/%d/qr?size=128", familyID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestScheduleReminder(t *testing.T) {
	fr, fp, router := newTestRouter(t)
	familyID, _ := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane")

	w, _ := doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/families/%d/remind", familyID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, fp.messages, 1)
	assert.Equal(t, "reminder", fp.messages[0].msg.Kind)
	assert.Equal(t, familyID, fp.messages[0].msg.FamilyID)
	assert.Equal(t, 30*60, fp.messages[0].delaySeconds)
}

func TestScheduleReminderRejectsSubmittedFamily(t *testing.T) {
	fr, fp, router := newTestRouter(t)
	familyID, guestIDs := seedFamily(t, fr, "The Doe Family", "AB12CD", "Jane")
	require.NoError(t, fr.SubmitRSVPTx(context.Background(), familyID, []model.GuestResponse{
		{GuestID: guestIDs[0], WillAttend: true},
	}))

	w, env := doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/families/%d/remind", familyID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.FieldIncorrect, env.Error.Code)
	assert.Empty(t, fp.messages)
}
