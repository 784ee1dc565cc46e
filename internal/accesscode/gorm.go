package accesscode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormRegistry keeps codes in Postgres.
type GormRegistry struct {
	db  *gorm.DB
	now func() time.Time
}

func OpenPostgres(dsn string) (*GormRegistry, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGormRegistry(db)
}

// NewGormRegistry migrates the codes table on db.
func NewGormRegistry(db *gorm.DB) (*GormRegistry, error) {
	if err := db.AutoMigrate(&Code{}); err != nil {
		return nil, fmt.Errorf("migrate access codes: %w", err)
	}
	return &GormRegistry{db: db, now: time.Now}, nil
}

func (r *GormRegistry) Create(ctx context.Context, matchTitle string, ttl time.Duration) (Code, error) {
	for range maxAttempts {
		value, err := GenerateCode()
		if err != nil {
			return Code{}, err
		}
		c := Code{Code: value, Active: true, MatchTitle: matchTitle, ExpiresAt: expiry(r.now(), ttl)}
		err = r.db.WithContext(ctx).Create(&c).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return Code{}, fmt.Errorf("create access code: %w", err)
		}
		return c, nil
	}
	return Code{}, errors.New("create access code: too many collisions")
}

func (r *GormRegistry) Verify(ctx context.Context, code string) (Code, error) {
	var c Code
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Code{}, ErrNotFound
	}
	if err != nil {
		return Code{}, fmt.Errorf("verify access code: %w", err)
	}
	if err := c.Usable(r.now()); err != nil {
		return Code{}, err
	}
	return c, nil
}

// Deactivate marks code unusable.
func (r *GormRegistry) Deactivate(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Model(&Code{}).Where("code = ?", strings.ToUpper(code)).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRegistry) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
