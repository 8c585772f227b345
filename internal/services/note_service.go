package services

import (
	"context"
	"fmt"

	"github.com/you/notesvc/domain"
)

// NoteServiceImpl implements domain.NoteService
type NoteServiceImpl struct {
	noteRepo domain.NoteRepository
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo domain.NoteRepository) domain.NoteService {
	return &NoteServiceImpl{noteRepo: noteRepo}
}

// List implements domain.NoteService
func (s *NoteServiceImpl) List(ctx context.Context, ownerID uint) ([]domain.Note, error) {
	return s.noteRepo.FindByOwner(ctx, ownerID)
}

// Create implements domain.NoteService
func (s *NoteServiceImpl) Create(ctx context.Context, ownerID uint, title, content string) (*domain.Note, error) {
	if title == "" || content == "" {
		return nil, domain.ErrMissingField
	}

	note := &domain.Note{
		UserID:  ownerID,
		Title:   title,
		Content: content,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// Delete implements domain.NoteService. The note must exist and belong
// to ownerID before it is removed.
func (s *NoteServiceImpl) Delete(ctx context.Context, ownerID, noteID uint) error {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return err
	}

	if note.UserID != ownerID {
		return domain.ErrNotOwner
	}

	return s.noteRepo.Delete(ctx, noteID)
}
