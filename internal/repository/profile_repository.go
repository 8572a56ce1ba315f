package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/maidaan/maidaan/internal/model"
)

// ProfileRepo stores admins and players in the profiles table.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileColumns = `id, contact_number, profile_type, name, email, password_hash,
	jersey_name, jersey_number, skill_level, position, bio, avatar_url,
	points, streak, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	var (
		p            model.Profile
		email        sql.NullString
		jerseyName   sql.NullString
		jerseyNumber sql.NullInt64
		skill        sql.NullString
		position     sql.NullString
		bio          sql.NullString
		avatar       sql.NullString
	)
	err := row.Scan(&p.ID, &p.ContactNumber, &p.ProfileType, &p.Name, &email, &p.PasswordHash,
		&jerseyName, &jerseyNumber, &skill, &position, &bio, &avatar,
		&p.Points, &p.Streak, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Email = nullString(email)
	p.JerseyName = nullString(jerseyName)
	if jerseyNumber.Valid {
		n := int(jerseyNumber.Int64)
		p.JerseyNumber = &n
	}
	p.SkillLevel = nullString(skill)
	p.Position = nullString(position)
	p.Bio = nullString(bio)
	p.AvatarURL = nullString(avatar)
	return &p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func normalizeEmail(e *string) *string {
	if e == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*e))
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts p and fills in its ID and timestamps.  PasswordHash must
// already be hashed; it may be empty for walk-in profiles.  A duplicate
// contact number or email yields ErrConflict.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	p.Email = normalizeEmail(p.Email)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO profiles (contact_number, profile_type, name, email, password_hash,
			jersey_name, jersey_number, skill_level, position, bio, avatar_url, points, streak)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,0,0)`,
		strings.TrimSpace(p.ContactNumber), p.ProfileType, p.Name, p.Email, p.PasswordHash,
		p.JerseyName, p.JerseyNumber, p.SkillLevel, p.Position, p.Bio, p.AvatarURL)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID fetches a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id uint64) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id=? LIMIT 1", id))
}

// GetByContact fetches a profile by phone number.
func (r *ProfileRepo) GetByContact(ctx context.Context, phone string) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE contact_number=? LIMIT 1", strings.TrimSpace(phone)))
}

// GetByEmail fetches a profile by normalized email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE email=? LIMIT 1", email))
}

// ProfilePatch lists the editable fields of a profile.  Nil fields are
// left unchanged.
type ProfilePatch struct {
	Name         *string
	Email        *string
	JerseyName   *string
	JerseyNumber *int
	SkillLevel   *string
	Position     *string
	Bio          *string
	AvatarURL    *string
}

// Update applies patch to profile id and returns the stored row.
func (r *ProfileRepo) Update(ctx context.Context, id uint64, patch ProfilePatch) (*model.Profile, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if patch.Name != nil {
		add("name", strings.TrimSpace(*patch.Name))
	}
	if patch.Email != nil {
		add("email", normalizeEmail(patch.Email))
	}
	if patch.JerseyName != nil {
		add("jersey_name", *patch.JerseyName)
	}
	if patch.JerseyNumber != nil {
		add("jersey_number", *patch.JerseyNumber)
	}
	if patch.SkillLevel != nil {
		add("skill_level", *patch.SkillLevel)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.AvatarURL != nil {
		add("avatar_url", *patch.AvatarURL)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := r.DB.ExecContext(ctx,
			"UPDATE profiles SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		if err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}
