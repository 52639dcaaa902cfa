package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/litenotes/internal/crypto/domain"
	cryptoService "github.com/allisson/litenotes/internal/crypto/service"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/keycache"
	"github.com/allisson/litenotes/internal/note/domain"
	appValidation "github.com/allisson/litenotes/internal/validation"
)

// NoteUseCase handles note-related business logic.
type NoteUseCase struct {
	noteRepo NoteRepository
	cipher   cryptoService.EnvelopeCipher
	keyCache keycache.Cache
	logger   *slog.Logger
}

// NewNoteUseCase creates a new NoteUseCase.
func NewNoteUseCase(
	noteRepo NoteRepository,
	cipher cryptoService.EnvelopeCipher,
	keyCache keycache.Cache,
	logger *slog.Logger,
) UseCase {
	return &NoteUseCase{
		noteRepo: noteRepo,
		cipher:   cipher,
		keyCache: keyCache,
		logger:   logger,
	}
}

// validateInput validates a note create/update input. Both fields may be
// empty; only the size limits are enforced.
func (uc *NoteUseCase) validateInput(input NoteInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Title,
			validation.Length(0, 255).Error("title must be at most 255 characters"),
		),
		validation.Field(&input.Content,
			validation.Length(0, 100000).Error("content must be at most 100000 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// dek fetches the caller's data encryption key from the key cache. A missing
// or expired entry means the encryption context for this session is gone, so
// the caller must authenticate again.
func (uc *NoteUseCase) dek(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	key, ok, err := uc.keyCache.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read key cache")
	}
	if !ok {
		return nil, apperrors.ErrKeyUnavailable
	}
	return key, nil
}

// sealField seals a single field, leaving empty fields empty.
func (uc *NoteUseCase) sealField(value string, key []byte) (string, error) {
	if value == "" {
		return "", nil
	}
	return uc.cipher.Seal([]byte(value), key)
}

// openField opens a single field. Empty fields were never sealed and pass
// through; a field that fails to open is reported as Failed rather than
// aborting the caller's operation.
func (uc *NoteUseCase) openField(noteID uuid.UUID, field, envelope string, key []byte) domain.FieldResult {
	if envelope == "" {
		return domain.Ok("")
	}
	plaintext, err := uc.cipher.Open(envelope, key)
	if err != nil {
		uc.logger.Warn("note field failed to decrypt",
			slog.String("note_id", noteID.String()),
			slog.String("field", field),
			slog.Any("error", err),
		)
		return domain.FailedField()
	}
	return domain.Ok(string(plaintext))
}

// Create seals the fields and persists a new note.
//
// The response carries the plaintext the caller just supplied; there is no
// reason to decrypt what was encrypted a moment ago.
func (uc *NoteUseCase) Create(ctx context.Context, userID uuid.UUID, input NoteInput) (*domain.DecryptedNote, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}

	key, err := uc.dek(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	sealedTitle, err := uc.sealField(input.Title, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal title")
	}
	sealedContent, err := uc.sealField(input.Content, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal content")
	}

	now := time.Now().UTC()
	note := &domain.Note{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Title:     sealedTitle,
		Content:   sealedContent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	return &domain.DecryptedNote{
		ID:        note.ID,
		Title:     domain.Ok(input.Title),
		Content:   domain.Ok(input.Content),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}, nil
}

// List returns the user's notes with each field decrypted independently. A
// corrupt field becomes a Failed result; the rest of the listing is
// unaffected.
func (uc *NoteUseCase) List(ctx context.Context, userID uuid.UUID) ([]*domain.DecryptedNote, error) {
	key, err := uc.dek(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	notes, err := uc.noteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	decrypted := make([]*domain.DecryptedNote, 0, len(notes))
	for _, note := range notes {
		decrypted = append(decrypted, &domain.DecryptedNote{
			ID:        note.ID,
			Title:     uc.openField(note.ID, "title", note.Title, key),
			Content:   uc.openField(note.ID, "content", note.Content, key),
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		})
	}
	return decrypted, nil
}

// Update re-seals the fields of an existing note and bumps UpdatedAt.
func (uc *NoteUseCase) Update(ctx context.Context, userID uuid.UUID, noteID uuid.UUID, input NoteInput) (*UpdateOutput, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}

	key, err := uc.dek(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	sealedTitle, err := uc.sealField(input.Title, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal title")
	}
	sealedContent, err := uc.sealField(input.Content, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal content")
	}

	note := &domain.Note{
		ID:        noteID,
		UserID:    userID,
		Title:     sealedTitle,
		Content:   sealedContent,
		UpdatedAt: time.Now().UTC(),
	}

	if err := uc.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	return &UpdateOutput{UpdatedAt: note.UpdatedAt}, nil
}

// Delete removes a note owned by the user. The repository reports a note that
// does not exist and a note owned by someone else identically.
func (uc *NoteUseCase) Delete(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) error {
	return uc.noteRepo.Delete(ctx, noteID, userID)
}
