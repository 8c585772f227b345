package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/notesvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           uint       `gorm:"primaryKey"`
	Name         string     `gorm:"size:255"`
	Email        string     `gorm:"uniqueIndex;size:255"`
	DateOfBirth  *time.Time `gorm:"column:date_of_birth"`
	GoogleID     string     `gorm:"index;size:64"`
	Role         string     `gorm:"index;size:64"`
	OTPHash      string     `gorm:"column:otp_hash;size:128"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByGoogleID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// UpsertWithOTP implements domain.UserRepository. The write runs as a
// single INSERT ... ON CONFLICT (email) DO UPDATE, so two concurrent
// signups for one email converge on one row instead of racing a
// separate existence check.
func (r *UserRepositoryImpl) UpsertWithOTP(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "date_of_birth", "otp_hash", "otp_expires_at", "updated_at",
		}),
	}).Create(dbUser).Error
	if err != nil {
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// SetOTP implements domain.UserRepository
func (r *UserRepositoryImpl) SetOTP(ctx context.Context, userID uint, hash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"otp_hash":       hash,
		"otp_expires_at": expiresAt,
	}).Error
}

// ClearOTP implements domain.UserRepository
func (r *UserRepositoryImpl) ClearOTP(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"otp_hash":       "",
		"otp_expires_at": nil,
	}).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		DateOfBirth:  user.DateOfBirth,
		GoogleID:     user.GoogleID,
		Role:         user.Role,
		OTPHash:      user.OTPHash,
		OTPExpiresAt: user.OTPExpiresAt,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Name:         dbUser.Name,
		Email:        dbUser.Email,
		DateOfBirth:  dbUser.DateOfBirth,
		GoogleID:     dbUser.GoogleID,
		Role:         dbUser.Role,
		OTPHash:      dbUser.OTPHash,
		OTPExpiresAt: dbUser.OTPExpiresAt,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}
