package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

// ContactRepo stores one cached contact row per user.  Each row carries
// a source tag: "api" for values mirrored from the account profile,
// "manual" for values the user typed at checkout.
type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

// Get fetches the cached contact for a user.
func (r *ContactRepo) Get(ctx context.Context, userID string) (model.ContactInfo, error) {
	var c model.ContactInfo
	err := r.DB.QueryRowContext(ctx,
		"SELECT name,email,phone,source FROM contacts WHERE user_id=? LIMIT 1",
		userID).Scan(&c.Name, &c.Email, &c.Phone, &c.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContactInfo{}, ErrNotFound
	}
	return c, err
}

// Upsert writes the contact row, replacing any previous value for the
// user.
func (r *ContactRepo) Upsert(ctx context.Context, userID string, c model.ContactInfo) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO contacts (user_id, name, email, phone, source)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE name=VALUES(name), email=VALUES(email),
		 phone=VALUES(phone), source=VALUES(source)`,
		userID, strings.TrimSpace(c.Name), strings.TrimSpace(c.Email),
		strings.TrimSpace(c.Phone), c.Source)
	return err
}

// MergeContact resolves a cached contact against a fresh profile fetch.
// Manually entered values win: the user corrected them once and should
// not have to re-type them every launch.  An api-sourced cache is simply
// replaced by the fresh fetch.  Empty fetches never erase cached data.
func MergeContact(cached, fetched model.ContactInfo) model.ContactInfo {
	if fetched.Name == "" && fetched.Email == "" && fetched.Phone == "" {
		return cached
	}
	if cached.Source == model.ContactSourceManual {
		return cached
	}
	fetched.Source = model.ContactSourceAPI
	return fetched
}
