package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/notesvc/domain"
	"github.com/you/notesvc/internal/http/middleware"
)

// NoteHandlers handles the note CRUD endpoints. Every route sits behind
// the bearer guard, so the owning user is always in the context.
type NoteHandlers struct {
	noteSvc domain.NoteService
}

// NewNoteHandlers creates new note handlers
func NewNoteHandlers(noteSvc domain.NoteService) *NoteHandlers {
	return &NoteHandlers{noteSvc: noteSvc}
}

// CreateNoteRequest represents the create-note body
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List handles GET /api/notes
func (h *NoteHandlers) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, user not found"})
		return
	}

	notes, err := h.noteSvc.List(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Create handles POST /api/notes
func (h *NoteHandlers) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, user not found"})
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please add a title and content"})
		return
	}

	note, err := h.noteSvc.Create(c.Request.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		if err == domain.ErrMissingField {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add a title and content"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusCreated, note)
}

// Delete handles DELETE /api/notes/:id
func (h *NoteHandlers) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, user not found"})
		return
	}

	noteID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Note not found"})
		return
	}

	if err := h.noteSvc.Delete(c.Request.Context(), user.ID, uint(noteID)); err != nil {
		switch err {
		case domain.ErrNoteNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found"})
		case domain.ErrNotOwner:
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note removed"})
}
