package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/notesvc/domain"
)

// NoteRepositoryImpl implements domain.NoteRepository using GORM
type NoteRepositoryImpl struct {
	db *gorm.DB
}

// DBNote represents the database model for Note (with GORM tags)
type DBNote struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Title     string `gorm:"size:255;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBNote) TableName() string {
	return "notes"
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *gorm.DB) domain.NoteRepository {
	return &NoteRepositoryImpl{db: db}
}

// Create implements domain.NoteRepository
func (r *NoteRepositoryImpl) Create(ctx context.Context, note *domain.Note) error {
	dbNote := &DBNote{
		UserID:  note.UserID,
		Title:   note.Title,
		Content: note.Content,
	}
	if err := r.db.WithContext(ctx).Create(dbNote).Error; err != nil {
		return err
	}
	note.ID = dbNote.ID
	note.CreatedAt = dbNote.CreatedAt
	note.UpdatedAt = dbNote.UpdatedAt
	return nil
}

// FindByID implements domain.NoteRepository
func (r *NoteRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Note, error) {
	var dbNote DBNote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbNote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	note := r.dbToDomain(&dbNote)
	return &note, nil
}

// FindByOwner implements domain.NoteRepository. Notes come back in
// insertion order.
func (r *NoteRepositoryImpl) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Note, error) {
	var dbNotes []DBNote
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id").Find(&dbNotes).Error
	if err != nil {
		return nil, err
	}

	notes := make([]domain.Note, 0, len(dbNotes))
	for i := range dbNotes {
		notes = append(notes, r.dbToDomain(&dbNotes[i]))
	}
	return notes, nil
}

// Delete implements domain.NoteRepository
func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBNote{}, id).Error
}

// dbToDomain converts database note to domain note
func (r *NoteRepositoryImpl) dbToDomain(dbNote *DBNote) domain.Note {
	return domain.Note{
		ID:        dbNote.ID,
		UserID:    dbNote.UserID,
		Title:     dbNote.Title,
		Content:   dbNote.Content,
		CreatedAt: dbNote.CreatedAt,
		UpdatedAt: dbNote.UpdatedAt,
	}
}
