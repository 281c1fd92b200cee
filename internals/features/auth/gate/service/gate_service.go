package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"admon_backend/internals/features/auth/gate/model"
)

var (
	ErrNoPassphrase      = errors.New("no passphrase configured")
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrInvalidToken      = errors.New("invalid session token")
	ErrSessionInactive   = errors.New("session is revoked or expired")
	ErrMissingSecret     = errors.New("JWT secret is not configured")
)

const issuer = "admon"

// Session is the gate state seen by callers. The zero value is the
// unauthenticated state.
type Session struct {
	ID            uuid.UUID  `json:"id,omitempty"`
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Token         string     `json:"-"`
}

type Meta struct {
	UserAgent string
	IP        string
}

type Gate struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewGate(db *gorm.DB, secret string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Gate{DB: db, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

func (g *Gate) storedHash(ctx context.Context, tx *gorm.DB) (string, error) {
	var cfg model.ConfigModel
	err := tx.WithContext(ctx).Where("id = ?", model.ConfigRowID).Limit(1).Find(&cfg).Error
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(cfg.ConfigClaveHash) == "" {
		return "", ErrNoPassphrase
	}
	return cfg.ConfigClaveHash, nil
}

// CheckPassphrase compares input with the stored passphrase. On a match it
// opens a session and returns it authenticated; on a mismatch nothing is written.
func (g *Gate) CheckPassphrase(ctx context.Context, input string, meta Meta) (Session, bool, error) {
	if len(g.Secret) == 0 {
		return Session{}, false, ErrMissingSecret
	}
	hash, err := g.storedHash(ctx, g.DB)
	if err != nil {
		return Session{}, false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(input)) != nil {
		return Session{}, false, nil
	}

	now := g.Now()
	row := model.SessionModel{
		SessionExpiresAt: now.Add(g.TTL),
		SessionUserAgent: strPtr(meta.UserAgent),
		SessionIP:        strPtr(meta.IP),
	}
	if err := g.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return Session{}, false, fmt.Errorf("create session: %w", err)
	}

	tok, err := g.sign(row, now)
	if err != nil {
		return Session{}, false, err
	}
	exp := row.SessionExpiresAt
	return Session{ID: row.SessionID, Authenticated: true, ExpiresAt: &exp, Token: tok}, true, nil
}

func (g *Gate) sign(row model.SessionModel, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        row.SessionID.String(),
		Subject:   "admin",
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(row.SessionExpiresAt),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

// Verify checks the token signature and expiry, then that its session row
// is still active.
func (g *Gate) Verify(ctx context.Context, raw string) (Session, error) {
	if len(g.Secret) == 0 {
		return Session{}, ErrMissingSecret
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.Secret, nil
	})
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	var row model.SessionModel
	if err := g.DB.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if row.SessionID == uuid.Nil || !row.Active(g.Now()) {
		return Session{}, ErrSessionInactive
	}
	exp := row.SessionExpiresAt
	return Session{ID: row.SessionID, Authenticated: true, ExpiresAt: &exp, Token: raw}, nil
}

// Logout revokes one session. Revoking an already revoked session is a no-op.
func (g *Gate) Logout(ctx context.Context, sessionID uuid.UUID) error {
	now := g.Now()
	return g.DB.WithContext(ctx).Model(&model.SessionModel{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", now).Error
}

// ChangePassphrase rotates the passphrase and revokes every session except keep.
func (g *Gate) ChangePassphrase(ctx context.Context, current, next string, keep uuid.UUID) (int64, error) {
	newHash, err := HashPassphrase(next)
	if err != nil {
		return 0, err
	}

	var revoked int64
	err = g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hash, err := g.storedHash(ctx, tx)
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)) != nil {
			return ErrInvalidPassphrase
		}
		if err := tx.Model(&model.ConfigModel{}).Where("id = ?", model.ConfigRowID).
			Updates(map[string]any{"clave_hash": newHash, "updated_at": g.Now()}).Error; err != nil {
			return fmt.Errorf("update passphrase: %w", err)
		}
		res := tx.Model(&model.SessionModel{}).
			Where("id <> ? AND revoked_at IS NULL", keep).
			Update("revoked_at", g.Now())
		if res.Error != nil {
			return fmt.Errorf("revoke sessions: %w", res.Error)
		}
		revoked = res.RowsAffected
		return nil
	})
	return revoked, err
}

func HashPassphrase(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	return string(b), nil
}

// SeedPassphrase writes the config row only when it does not exist yet.
// Reports whether a row was inserted.
func SeedPassphrase(ctx context.Context, db *gorm.DB, plain string) (bool, error) {
	if strings.TrimSpace(plain) == "" {
		return false, nil
	}
	hash, err := HashPassphrase(plain)
	if err != nil {
		return false, err
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&model.ConfigModel{ConfigID: model.ConfigRowID, ConfigClaveHash: hash})
	if res.Error != nil {
		return false, fmt.Errorf("seed passphrase: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CleanupSessions deletes sessions that expired or were revoked before cutoff.
func CleanupSessions(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).
		Delete(&model.SessionModel{})
	return res.RowsAffected, res.Error
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
