package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/timeslot"
)

// MatchRepo stores matches and the match_slots rows that hold their court
// slots.  A live match owns one match_slots row per slot; the unique key on
// (venue_id, court_id, date, slot) makes a second booking of the same slot
// fail inside the inserting transaction.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo returns a MatchRepo bound to db.
func NewMatchRepo(db *sql.DB) *MatchRepo { return &MatchRepo{db: db} }

const matchColumns = `id, venue_id, court_id, host_player_id, booker_name, booker_contact,
	date, time_slots, sport_type, match_type, match_status, players_list, price,
	payment_status, payment_method, is_recurring, recurring_config,
	cancellation_allowed_until, is_cancelled, created_at, updated_at`

func scanMatch(row interface{ Scan(...any) error }) (*model.Match, error) {
	var (
		m         model.Match
		name      sql.NullString
		contact   sql.NullString
		date      time.Time
		slots     []byte
		players   []byte
		method    sql.NullString
		recurring []byte
		until     sql.NullTime
	)
	err := row.Scan(&m.ID, &m.VenueID, &m.CourtID, &m.HostPlayerID, &name, &contact,
		&date, &slots, &m.SportType, &m.MatchType, &m.MatchStatus, &players, &m.Price,
		&m.PaymentStatus, &method, &m.IsRecurring, &recurring,
		&until, &m.IsCancelled, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m.BookerName = nullString(name)
	m.BookerContact = nullString(contact)
	m.PaymentMethod = nullString(method)
	m.Date = timeslot.DateKey(date)
	m.TimeSlots = []string{}
	if err := json.Unmarshal(slots, &m.TimeSlots); err != nil {
		return nil, err
	}
	m.PlayersList = []model.MatchPlayer{}
	if len(players) > 0 {
		if err := json.Unmarshal(players, &m.PlayersList); err != nil {
			return nil, err
		}
	}
	if len(recurring) > 0 {
		m.RecurringConfig = json.RawMessage(recurring)
	}
	if until.Valid {
		t := until.Time
		m.CancellationAllowedUntil = &t
	}
	return &m, nil
}

func (r *MatchRepo) queryMatches(ctx context.Context, q string, args ...any) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// FetchMatches returns the live matches of a court on a date.  Cancelled
// rows are excluded here; the availability board filters the legacy
// payment status value.
func (r *MatchRepo) FetchMatches(ctx context.Context, venueID, courtID uint64, date string) ([]model.Match, error) {
	return r.queryMatches(ctx,
		"SELECT "+matchColumns+` FROM matches
		 WHERE venue_id = ? AND court_id = ? AND date = ? AND is_cancelled = 0
		 ORDER BY id`, venueID, courtID, date)
}

// Insert stores a pending match built from d and claims its slots.  When any
// slot is already held by a live match the transaction is rolled back and
// ErrSlotTaken is returned.
func (r *MatchRepo) Insert(ctx context.Context, d model.MatchDraft) (*model.Match, error) {
	slots, err := json.Marshal(d.TimeSlots)
	if err != nil {
		return nil, err
	}
	players, err := json.Marshal(d.PlayersList)
	if err != nil {
		return nil, err
	}
	matchType := d.MatchType
	if matchType == "" {
		matchType = model.MatchTypeCasual
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
		`INSERT INTO matches (venue_id, court_id, host_player_id, booker_name, booker_contact,
			date, time_slots, sport_type, match_type, match_status, players_list, price,
			payment_status, cancellation_allowed_until)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		d.VenueID, d.CourtID, d.HostPlayerID, d.BookerName, d.BookerContact,
		d.Date, slots, d.SportType, matchType, model.MatchStatusUpcoming, players, d.Price,
		model.PaymentPending, d.CancellationAllowedUntil)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, s := range d.TimeSlots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_slots (match_id, venue_id, court_id, date, slot) VALUES (?,?,?,?,?)`,
			id, d.VenueID, d.CourtID, d.Date, s); err != nil {
			if isDuplicate(err) {
				return nil, ErrSlotTaken
			}
			return nil, err
		}
	}
	m, err := scanMatch(tx.QueryRowContext(ctx, "SELECT "+matchColumns+" FROM matches WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return m, nil
}

// GetByID fetches a match by id, cancelled or not.
func (r *MatchRepo) GetByID(ctx context.Context, id uint64) (*model.Match, error) {
	return scanMatch(r.db.QueryRowContext(ctx, "SELECT "+matchColumns+" FROM matches WHERE id = ?", id))
}

// ListByHost returns the matches hosted by a profile, newest first.
func (r *MatchRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Match, error) {
	return r.queryMatches(ctx,
		"SELECT "+matchColumns+` FROM matches WHERE host_player_id = ?
		 ORDER BY date DESC, created_at DESC, id DESC`, hostID)
}

// MarkPaid moves a pending live match to paid.  It returns ErrConflict when
// the match is not pending or has been cancelled, and ErrNotFound when it
// does not exist.
func (r *MatchRepo) MarkPaid(ctx context.Context, id uint64, method string) (*model.Match, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET payment_status = ?, payment_method = ?
		 WHERE id = ? AND payment_status = ? AND is_cancelled = 0`,
		model.PaymentPaid, method, id, model.PaymentPending)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return m, ErrConflict
	}
	return m, nil
}

// Cancel flags a match as cancelled and releases its slots in one
// transaction.  Cancelling a match that is already cancelled, by flag or by
// legacy payment status, yields ErrConflict.
func (r *MatchRepo) Cancel(ctx context.Context, id uint64) (*model.Match, error) {
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

	var (
		cancelled bool
		payment   string
	)
	err = tx.QueryRowContext(ctx,
		"SELECT is_cancelled, payment_status FROM matches WHERE id = ? FOR UPDATE", id).Scan(&cancelled, &payment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if cancelled || payment == model.PaymentCancelled {
		return nil, ErrConflict
	}
	if _, err := tx.ExecContext(ctx, "UPDATE matches SET is_cancelled = 1 WHERE id = ?", id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM match_slots WHERE match_id = ?", id); err != nil {
		return nil, err
	}
	m, err := scanMatch(tx.QueryRowContext(ctx, "SELECT "+matchColumns+" FROM matches WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return m, nil
}

// AddPlayer appends p to the players list of a live match.  A player that
// is already listed leaves the match unchanged.
func (r *MatchRepo) AddPlayer(ctx context.Context, id uint64, p model.MatchPlayer) (*model.Match, error) {
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

	m, err := scanMatch(tx.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM matches WHERE id = ? FOR UPDATE", id))
	if err != nil {
		return nil, err
	}
	if m.Cancelled() {
		return nil, ErrConflict
	}
	if !m.HasPlayer(p.PlayerID) {
		m.PlayersList = append(m.PlayersList, p)
		b, err := json.Marshal(m.PlayersList)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE matches SET players_list = ? WHERE id = ?", b, id); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return m, nil
}

// PaidByVenueSince returns the paid live matches of a venue dated on or
// after since, newest date first.
func (r *MatchRepo) PaidByVenueSince(ctx context.Context, venueID uint64, since string) ([]model.Match, error) {
	return r.queryMatches(ctx,
		"SELECT "+matchColumns+` FROM matches
		 WHERE venue_id = ? AND payment_status = ? AND is_cancelled = 0 AND date >= ?
		 ORDER BY date DESC, id`, venueID, model.PaymentPaid, since)
}

// PaidByVenueOnDate returns the paid live matches of a venue on one date.
func (r *MatchRepo) PaidByVenueOnDate(ctx context.Context, venueID uint64, date string) ([]model.Match, error) {
	return r.queryMatches(ctx,
		"SELECT "+matchColumns+` FROM matches
		 WHERE venue_id = ? AND payment_status = ? AND is_cancelled = 0 AND date = ?
		 ORDER BY id`, venueID, model.PaymentPaid, date)
}
