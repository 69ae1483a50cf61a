package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"rsvpbook/internal/model"
)

var (
	ErrFamilyNotFound = errors.New("family not found")
	ErrGuestNotFound  = errors.New("guest not found")
)

type Repository interface {
	CreateFamilyTx(ctx context.Context, f *model.Family, guests []model.Guest) (int64, error)
	GetFamilyByID(ctx context.Context, id int64) (*model.Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*model.Family, error)
	GetAllFamilies(ctx context.Context) ([]model.Family, error)
	CountFamilies(ctx context.Context) (int, error)
	GetGuestsByFamilyID(ctx context.Context, familyID int64) ([]model.Guest, error)
	GetGuestByID(ctx context.Context, id int64) (*model.Guest, error)
	AddGuest(ctx context.Context, g *model.Guest) (int64, error)
	DeleteGuest(ctx context.Context, id int64) error
	SubmitRSVPTx(ctx context.Context, familyID int64, responses []model.GuestResponse) error
	GetWeddingDetails(ctx context.Context) (*model.WeddingDetails, error)
	UpsertWeddingDetailsTx(ctx context.Context, d *model.WeddingDetails) (int64, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

// CreateFamilyTx inserts a family and its initial guests in one transaction.
// The unique code is assigned by the caller and never changes afterwards.
func (r *repository) CreateFamilyTx(ctx context.Context, f *model.Family, guests []model.Guest) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var familyID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO families (family_name, unique_code, contact_email, contact_phone, rsvp_submitted)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id
	`, f.FamilyName, f.UniqueCode, f.ContactEmail, f.ContactPhone).Scan(&familyID)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to create family: %w", err)
	}

	for _, g := range guests {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guests (family_id, first_name, last_name, is_child)
			VALUES ($1, $2, $3, $4)
		`, familyID, g.FirstName, g.LastName, g.IsChild); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to create guest: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return familyID, nil
}

func (r *repository) GetFamilyByID(ctx context.Context, id int64) (*model.Family, error) {
	query := `
		SELECT id, family_name, unique_code, contact_email, contact_phone,
		       rsvp_submitted, rsvp_submitted_at, created_at, updated_at
		FROM families WHERE id = $1
	`
	return r.scanFamily(r.db.QueryRowContext(ctx, query, id))
}

func (r *repository) GetFamilyByCode(ctx context.Context, code string) (*model.Family, error) {
	query := `
		SELECT id, family_name, unique_code, contact_email, contact_phone,
		       rsvp_submitted, rsvp_submitted_at, created_at, updated_at
		FROM families WHERE unique_code = $1
	`
	return r.scanFamily(r.db.QueryRowContext(ctx, query, code))
}

func (r *repository) scanFamily(row *sql.Row) (*model.Family, error) {
	var f model.Family
	err := row.Scan(
		&f.ID, &f.FamilyName, &f.UniqueCode, &f.ContactEmail, &f.ContactPhone,
		&f.RSVPSubmitted, &f.RSVPSubmittedAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan family: %w", err)
	}
	return &f, nil
}

func (r *repository) GetAllFamilies(ctx context.Context) ([]model.Family, error) {
	query := `
		SELECT id, family_name, unique_code, contact_email, contact_phone,
		       rsvp_submitted, rsvp_submitted_at, created_at, updated_at
		FROM families
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get families: %w", err)
	}
	defer rows.Close()

	var families []model.Family
	for rows.Next() {
		var f model.Family
		if err := rows.Scan(
			&f.ID, &f.FamilyName, &f.UniqueCode, &f.ContactEmail, &f.ContactPhone,
			&f.RSVPSubmitted, &f.RSVPSubmittedAt, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, f)
	}

	return families, nil
}

func (r *repository) CountFamilies(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM families`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count families: %w", err)
	}
	return count, nil
}

// GetGuestsByFamilyID returns the family's guests in creation order.
func (r *repository) GetGuestsByFamilyID(ctx context.Context, familyID int64) ([]model.Guest, error) {
	query := `
		SELECT id, family_id, first_name, last_name, is_child,
		       dietary_restrictions, will_attend, created_at
		FROM guests
		WHERE family_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guests: %w", err)
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(
			&g.ID, &g.FamilyID, &g.FirstName, &g.LastName, &g.IsChild,
			&g.DietaryRestrictions, &g.WillAttend, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}

	return guests, nil
}

func (r *repository) GetGuestByID(ctx context.Context, id int64) (*model.Guest, error) {
	query := `
		SELECT id, family_id, first_name, last_name, is_child,
		       dietary_restrictions, will_attend, created_at
		FROM guests WHERE id = $1
	`

	var g model.Guest
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.FamilyID, &g.FirstName, &g.LastName, &g.IsChild,
		&g.DietaryRestrictions, &g.WillAttend, &g.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan guest: %w", err)
	}
	return &g, nil
}

func (r *repository) AddGuest(ctx context.Context, g *model.Guest) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO guests (family_id, first_name, last_name, is_child)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, g.FamilyID, g.FirstName, g.LastName, g.IsChild).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add guest: %w", err)
	}
	return id, nil
}

func (r *repository) DeleteGuest(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return ErrGuestNotFound
	}
	return nil
}

// SubmitRSVPTx applies one family's attendance answers in a single
// transaction: the family row is locked and marked submitted, then every
// response overwrites its guest's answer. A response naming a guest outside
// the family (or one that does not exist) rolls the whole call back, so a
// bad batch never leaves the submitted flag set. Guests without a response
// in the batch keep whatever answer they had. There is no guard against a
// second submission: the later write wins.
func (r *repository) SubmitRSVPTx(ctx context.Context, familyID int64, responses []model.GuestResponse) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM families WHERE id = $1 FOR UPDATE
	`, familyID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return ErrFamilyNotFound
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to lock family: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE families
		SET rsvp_submitted = true, rsvp_submitted_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, familyID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to mark family submitted: %w", err)
	}

	for _, resp := range responses {
		var guestID int64
		err := tx.QueryRowContext(ctx, `
			UPDATE guests
			SET will_attend = $1, dietary_restrictions = $2
			WHERE id = $3 AND family_id = $4
			RETURNING id
		`, resp.WillAttend, resp.DietaryRestrictions, resp.GuestID, familyID).Scan(&guestID)
		if errors.Is(err, sql.ErrNoRows) {
			_ = tx.Rollback()
			return ErrGuestNotFound
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update guest response: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *repository) GetWeddingDetails(ctx context.Context) (*model.WeddingDetails, error) {
	query := `
		SELECT id, bride_name, groom_name, wedding_date, venue, venue_address,
		       ceremony_time, reception_time, dress_code, additional_info, updated_at
		FROM wedding_details
		ORDER BY id ASC
		LIMIT 1
	`

	var d model.WeddingDetails
	err := r.db.QueryRowContext(ctx, query).Scan(
		&d.ID, &d.BrideName, &d.GroomName, &d.WeddingDate, &d.Venue, &d.VenueAddress,
		&d.CeremonyTime, &d.ReceptionTime, &d.DressCode, &d.AdditionalInfo, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan wedding details: %w", err)
	}
	return &d, nil
}

// UpsertWeddingDetailsTx keeps the wedding_details table at a single row:
// overwrite the existing record in place if there is one, insert otherwise.
func (r *repository) UpsertWeddingDetailsTx(ctx context.Context, d *model.WeddingDetails) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var existingID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM wedding_details ORDER BY id ASC LIMIT 1 FOR UPDATE
	`).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to check existing details: %w", err)
	}

	var id int64
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO wedding_details (bride_name, groom_name, wedding_date, venue, venue_address,
			                             ceremony_time, reception_time, dress_code, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, d.BrideName, d.GroomName, d.WeddingDate, d.Venue, d.VenueAddress,
			d.CeremonyTime, d.ReceptionTime, d.DressCode, d.AdditionalInfo).Scan(&id)
	} else {
		id = existingID
		_, err = tx.ExecContext(ctx, `
			UPDATE wedding_details
			SET bride_name = $1, groom_name = $2, wedding_date = $3, venue = $4,
			    venue_address = $5, ceremony_time = $6, reception_time = $7,
			    dress_code = $8, additional_info = $9, updated_at = NOW()
			WHERE id = $10
		`, d.BrideName, d.GroomName, d.WeddingDate, d.Venue, d.VenueAddress,
			d.CeremonyTime, d.ReceptionTime, d.DressCode, d.AdditionalInfo, existingID)
	}
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to upsert wedding details: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}
