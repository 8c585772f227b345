package mocks

import (
	"context"

	"github.com/you/notesvc/domain"
)

// MockNoteRepository implements domain.NoteRepository for testing
type MockNoteRepository struct {
	CreateFunc      func(ctx context.Context, note *domain.Note) error
	FindByIDFunc    func(ctx context.Context, id uint) (*domain.Note, error)
	FindByOwnerFunc func(ctx context.Context, ownerID uint) ([]domain.Note, error)
	DeleteFunc      func(ctx context.Context, id uint) error
}

// NewMockNoteRepository creates a new MockNoteRepository with default behaviors
func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{}
}

func (m *MockNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, note)
	}
	return nil
}

func (m *MockNoteRepository) FindByID(ctx context.Context, id uint) (*domain.Note, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNoteNotFound
}

func (m *MockNoteRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Note, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, ownerID)
	}
	return []domain.Note{}, nil
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
