package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/maidaan/maidaan/internal/model"
)

// VenueRepo provides access to venues together with their courts and
// pricing rules.  Reads always return the venue with both collections
// loaded.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a VenueRepo bound to db.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, owner_admin_id, name, description, location, contact,
	opening_time, closing_time, cancellation_cutoff_hours, amenities, rating,
	created_at, updated_at`

func scanVenue(row interface{ Scan(...any) error }) (*model.Venue, error) {
	var (
		v         model.Venue
		desc      sql.NullString
		contact   sql.NullString
		amenities []byte
	)
	err := row.Scan(&v.ID, &v.OwnerAdminID, &v.Name, &desc, &v.Location, &contact,
		&v.OperatingHours.OpeningTime, &v.OperatingHours.ClosingTime, &v.CancellationCutoffHours,
		&amenities, &v.Rating, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	v.Description = nullString(desc)
	v.Contact = nullString(contact)
	v.Amenities = []string{}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &v.Amenities); err != nil {
			return nil, err
		}
	}
	return &v, nil
}

// GetByID returns venue id with courts and pricing rules.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx,
		"SELECT "+venueColumns+" FROM venues WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	return v, r.loadChildren(ctx, v)
}

// GetByOwner returns the venue of an admin.
func (r *VenueRepo) GetByOwner(ctx context.Context, adminID uint64) (*model.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx,
		"SELECT "+venueColumns+" FROM venues WHERE owner_admin_id = ?", adminID))
	if err != nil {
		return nil, err
	}
	return v, r.loadChildren(ctx, v)
}

// List returns all venues ordered by id.
func (r *VenueRepo) List(ctx context.Context) ([]*model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+venueColumns+" FROM venues ORDER BY id")
	if err != nil {
		return nil, err
	}
	var out []*model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, v := range out {
		if err := r.loadChildren(ctx, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *VenueRepo) loadChildren(ctx context.Context, v *model.Venue) error {
	courts, err := r.listCourts(ctx, v.ID)
	if err != nil {
		return err
	}
	rules, err := r.listRules(ctx, v.ID)
	if err != nil {
		return err
	}
	v.Courts = courts
	v.PricingRules = rules
	return nil
}

func (r *VenueRepo) listCourts(ctx context.Context, venueID uint64) ([]model.Court, error) {
	const q = `SELECT id, venue_id, sport_type, court_number, name, icon, is_active
	           FROM courts WHERE venue_id = ? ORDER BY sport_type, court_number`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Court{}
	for rows.Next() {
		var c model.Court
		if err := rows.Scan(&c.ID, &c.VenueID, &c.SportType, &c.CourtNumber, &c.Name, &c.Icon, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *VenueRepo) listRules(ctx context.Context, venueID uint64) ([]model.PricingRule, error) {
	const q = `SELECT id, venue_id, time_period, day_type, price_per_hour
	           FROM pricing_rules WHERE venue_id = ? ORDER BY day_type DESC, FIELD(time_period,'morning','afternoon','evening')`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PricingRule{}
	for rows.Next() {
		var p model.PricingRule
		if err := rows.Scan(&p.ID, &p.VenueID, &p.TimePeriod, &p.DayType, &p.PricePerHour); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts v with its courts and pricing rules in one transaction and
// returns the stored venue.  An admin can own a single venue; a second one
// yields ErrConflict.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) (*model.Venue, error) {
	amenities, err := json.Marshal(v.Amenities)
	if err != nil {
		return nil, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO venues (owner_admin_id, name, description, location, contact,
			opening_time, closing_time, cancellation_cutoff_hours, amenities, rating)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		v.OwnerAdminID, v.Name, v.Description, v.Location, v.Contact,
		v.OperatingHours.OpeningTime, v.OperatingHours.ClosingTime, v.CancellationCutoffHours,
		amenities, v.Rating)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	venueID := uint64(id)

	for _, c := range v.Courts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courts (venue_id, sport_type, court_number, name, icon, is_active) VALUES (?,?,?,?,?,?)`,
			venueID, c.SportType, c.CourtNumber, c.Name, c.Icon, c.IsActive); err != nil {
			return nil, err
		}
	}
	for _, p := range v.PricingRules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pricing_rules (venue_id, time_period, day_type, price_per_hour) VALUES (?,?,?,?)`,
			venueID, p.TimePeriod, p.DayType, p.PricePerHour); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetByID(ctx, venueID)
}

// VenuePatch lists the editable fields of a venue.  Nil fields are left
// unchanged.
type VenuePatch struct {
	Name                    *string
	Description             *string
	Location                *string
	Contact                 *string
	OpeningTime             *string
	ClosingTime             *string
	CancellationCutoffHours *int
	Amenities               *[]string
}

// Update applies patch to venue id.  Only the owning admin may update; a
// venue of another admin yields ErrForbidden.
func (r *VenueRepo) Update(ctx context.Context, id, adminID uint64, patch VenuePatch) (*model.Venue, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx, "SELECT owner_admin_id FROM venues WHERE id = ?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != adminID {
		return nil, ErrForbidden
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Name != nil {
		add("name", strings.TrimSpace(*patch.Name))
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Contact != nil {
		add("contact", *patch.Contact)
	}
	if patch.OpeningTime != nil {
		add("opening_time", *patch.OpeningTime)
	}
	if patch.ClosingTime != nil {
		add("closing_time", *patch.ClosingTime)
	}
	if patch.CancellationCutoffHours != nil {
		add("cancellation_cutoff_hours", *patch.CancellationCutoffHours)
	}
	if patch.Amenities != nil {
		b, err := json.Marshal(*patch.Amenities)
		if err != nil {
			return nil, err
		}
		add("amenities", b)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE venues SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpsertPricingRules writes rules for venue id, replacing the price of an
// existing (time period, day type) pair.
func (r *VenueRepo) UpsertPricingRules(ctx context.Context, venueID uint64, rules []model.PricingRule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, p := range rules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pricing_rules (venue_id, time_period, day_type, price_per_hour)
			 VALUES (?,?,?,?)
			 ON DUPLICATE KEY UPDATE price_per_hour = VALUES(price_per_hour)`,
			venueID, p.TimePeriod, p.DayType, p.PricePerHour); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AddCourt inserts a court numbered after the venue's last court of the
// same sport and returns it.
func (r *VenueRepo) AddCourt(ctx context.Context, c model.Court) (*model.Court, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(court_number) FROM courts WHERE venue_id = ? AND sport_type = ? FOR UPDATE`,
		c.VenueID, c.SportType).Scan(&last); err != nil {
		return nil, err
	}
	c.CourtNumber = int(last.Int64) + 1
	if c.Name == "" {
		c.Name = CourtName(c.SportType, c.CourtNumber)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO courts (venue_id, sport_type, court_number, name, icon, is_active) VALUES (?,?,?,?,?,?)`,
		c.VenueID, c.SportType, c.CourtNumber, c.Name, c.Icon, c.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	c.ID = uint64(id)
	return &c, nil
}

// CourtName renders the display name of a court, e.g. "Basketball - Court 2".
func CourtName(sport string, number int) string {
	s := strings.TrimSpace(sport)
	if s != "" {
		s = strings.ToUpper(s[:1]) + s[1:]
	}
	return s + " - Court " + strconv.Itoa(number)
}
