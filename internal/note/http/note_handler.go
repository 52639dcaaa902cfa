// Package http provides HTTP handlers for note operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/litenotes/internal/auth/http"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/httputil"
	"github.com/allisson/litenotes/internal/note/http/dto"
	"github.com/allisson/litenotes/internal/note/usecase"
)

// NoteHandler handles note-related HTTP requests. All routes require
// authentication; the owning user comes from the request context, never from
// the request body.
type NoteHandler struct {
	noteUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteUseCase usecase.UseCase, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteUseCase: noteUseCase,
		logger:      logger,
	}
}

// identity extracts the authenticated identity or writes a 401.
func (h *NoteHandler) identity(c *gin.Context) (uuid.UUID, bool) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return identity.UserID, true
}

// CreateNoteHandler creates a note.
// POST /v1/notes - Returns 201 Created with the plaintext note.
func (h *NoteHandler) CreateNoteHandler(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	note, err := h.noteUseCase.Create(c.Request.Context(), userID, dto.ToNoteInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToNoteResponse(note))
}

// ListNotesHandler lists the user's notes.
// GET /v1/notes - Returns 200 OK with notes ordered by updated_at descending.
func (h *NoteHandler) ListNotesHandler(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	notes, err := h.noteUseCase.List(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": dto.ToNoteListResponse(notes)})
}

// UpdateNoteHandler updates a note.
// PUT /v1/notes/:id - Returns 200 OK with the new updated_at.
func (h *NoteHandler) UpdateNoteHandler(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid note id: must be a valid UUID"), h.logger)
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.noteUseCase.Update(c.Request.Context(), userID, noteID, dto.ToNoteInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateNoteResponse{UpdatedAt: output.UpdatedAt})
}

// DeleteNoteHandler deletes a note.
// DELETE /v1/notes/:id - Returns 204 No Content.
func (h *NoteHandler) DeleteNoteHandler(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid note id: must be a valid UUID"), h.logger)
		return
	}

	if err := h.noteUseCase.Delete(c.Request.Context(), userID, noteID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
