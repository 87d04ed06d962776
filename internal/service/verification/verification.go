package verification

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/storage"
)

// MaxDocumentSize limits a single uploaded file
const MaxDocumentSize = 10 << 20

const keyPrefix = "verification-documents"

// Document is one uploaded file before it reaches the object store
type Document struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SubmitParams describes one identity submission. Back is required for
// national IDs, PassportNumber for passports.
type SubmitParams struct {
	DocumentType   string
	Front          *Document
	Back           *Document
	Selfie         *Document
	PassportNumber string
}

type VerificationService struct {
	storage   repository.Storage
	documents storage.DocumentStore
}

func NewService(st repository.Storage, documents storage.DocumentStore) *VerificationService {
	return &VerificationService{
		storage:   st,
		documents: documents,
	}
}

// Submit validates the uploaded documents, stores them and opens a pending
// verification for admin review
func (s *VerificationService) Submit(ctx context.Context, userID uuid.UUID, params SubmitParams) (models.IdentityVerification, error) {
	var v models.IdentityVerification

	if err := validate(params); err != nil {
		return v, err
	}

	frontKey, err := s.upload(ctx, userID, params.Front)
	if err != nil {
		return v, fmt.Errorf("upload front document: %w", err)
	}

	var backKey *string
	if params.DocumentType == models.DocumentNationalID {
		key, err := s.upload(ctx, userID, params.Back)
		if err != nil {
			return v, fmt.Errorf("upload back document: %w", err)
		}
		backKey = &key
	}

	selfieKey, err := s.upload(ctx, userID, params.Selfie)
	if err != nil {
		return v, fmt.Errorf("upload selfie: %w", err)
	}

	v = models.IdentityVerification{
		UserID:           userID,
		DocumentType:     params.DocumentType,
		DocumentFrontKey: frontKey,
		DocumentBackKey:  backKey,
		SelfieKey:        selfieKey,
		Status:           models.VerificationPending,
	}
	if params.DocumentType == models.DocumentPassport {
		number := params.PassportNumber
		v.PassportNumber = &number
	}

	return s.storage.Verification().CreateVerification(ctx, v)
}

// Latest returns the user's most recent submission
func (s *VerificationService) Latest(ctx context.Context, userID uuid.UUID) (models.IdentityVerification, error) {
	return s.storage.Verification().GetLatest(ctx, userID)
}

// DocumentURL returns a short-lived read URL for a stored document
func (s *VerificationService) DocumentURL(ctx context.Context, key string) (string, error) {
	return s.documents.SignedURL(ctx, key)
}

func validate(params SubmitParams) error {
	switch params.DocumentType {
	case models.DocumentNationalID:
		if params.Back == nil {
			return apperrors.ErrDocumentMissing
		}
	case models.DocumentPassport:
		if strings.TrimSpace(params.PassportNumber) == "" {
			return apperrors.ErrPassportNumberRequired
		}
	default:
		return apperrors.ErrDocumentTypeInvalid
	}

	if params.Front == nil || params.Selfie == nil {
		return apperrors.ErrDocumentMissing
	}

	for _, doc := range []*Document{params.Front, params.Back, params.Selfie} {
		if doc != nil && doc.Size > MaxDocumentSize {
			return apperrors.ErrDocumentTooLarge
		}
	}

	return nil
}

func (s *VerificationService) upload(ctx context.Context, userID uuid.UUID, doc *Document) (string, error) {
	key := objectKey(userID, doc.Filename)
	return s.documents.Put(ctx, key, doc.ContentType, io.LimitReader(doc.Body, MaxDocumentSize))
}

func objectKey(userID uuid.UUID, filename string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}

	return fmt.Sprintf("%s/%s-%d-%s%s", keyPrefix, userID, time.Now().Unix(), hex.EncodeToString(suffix), ext)
}
