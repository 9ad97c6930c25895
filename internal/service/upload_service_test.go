package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type stubUploadStore struct {
	saved map[string][]byte
}

func (s *stubUploadStore) Save(filename string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[filename] = data
	return filename, nil
}

func uploadClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, FirstName: "Ana", LastName: "Reyes"}
}

func TestUploadStoreKeepsOriginalExtension(t *testing.T) {
	store := &stubUploadStore{}
	svc := NewUploadService(store, 1024, nil, nil)

	attachment, err := svc.Store(context.Background(), uploadClaims(), "fiesta-poster.PNG", []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "fiesta-poster.PNG", attachment.Name)
	assert.True(t, strings.HasPrefix(attachment.Path, "/uploads/"))
	assert.True(t, strings.HasSuffix(attachment.Path, ".png"))
	assert.Len(t, store.saved, 1)
}

func TestUploadStoreRejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(&stubUploadStore{}, 4, nil, nil)

	_, err := svc.Store(context.Background(), uploadClaims(), "big.jpg", []byte("12345"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUploadStoreRejectsDisallowedExtension(t *testing.T) {
	svc := NewUploadService(&stubUploadStore{}, 1024, nil, nil)

	_, err := svc.Store(context.Background(), uploadClaims(), "payload.exe", []byte("MZ"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUploadStoreRejectsEmptyFile(t *testing.T) {
	svc := NewUploadService(&stubUploadStore{}, 1024, nil, nil)

	_, err := svc.Store(context.Background(), uploadClaims(), "empty.png", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
