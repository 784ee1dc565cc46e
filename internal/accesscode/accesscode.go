package accesscode

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("access code not found")
	ErrInactive = errors.New("access code inactive")
)

const (
	codeLength  = 6
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts = 8
)

// Code is one issued room access code.
type Code struct {
	gorm.Model
	Code       string     `json:"code" gorm:"not null;uniqueIndex;size:16"`
	Active     bool       `json:"active" gorm:"not null;default:true"`
	MatchTitle string     `json:"matchTitle"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Usable returns ErrInactive when c was deactivated or has expired.
func (c Code) Usable(now time.Time) error {
	if !c.Active {
		return ErrInactive
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return ErrInactive
	}
	return nil
}

// Registry issues and verifies access codes.
type Registry interface {
	// Create issues a fresh code. A zero ttl never expires.
	Create(ctx context.Context, matchTitle string, ttl time.Duration) (Code, error)
	// Verify returns the code when it exists and is usable.
	Verify(ctx context.Context, code string) (Code, error)
}

func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}

func expiry(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl)
	return &t
}

var (
	_ Registry = (*GormRegistry)(nil)
	_ Registry = (*MemoryRegistry)(nil)
	_ Registry = (*HTTPClient)(nil)
)
