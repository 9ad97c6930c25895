package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

// uploadStore persists attachment bytes under a public uploads directory.
type uploadStore interface {
	Save(filename string, data []byte) (string, error)
}

// Extensions the announcement editor may attach. Everything else is refused
// up front rather than relying on content sniffing.
var allowedUploadExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".mp4": {}, ".webm": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
}

// UploadService stores announcement attachments on local disk and hands back
// the public path the frontend embeds in posts.
type UploadService struct {
	store    uploadStore
	maxBytes int64
	activity ActivityRecorder
	logger   *zap.Logger
}

// NewUploadService constructs an UploadService.
func NewUploadService(store uploadStore, maxBytes int64, activity ActivityRecorder, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{store: store, maxBytes: maxBytes, activity: activity, logger: logger}
}

// Store validates and persists one uploaded file. The stored name is
// uuid-prefixed so repeated uploads of the same filename never collide.
func (s *UploadService) Store(ctx context.Context, claims *models.JWTClaims, filename string, data []byte) (*models.Attachment, error) {
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := allowedUploadExts[ext]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %q is not allowed", ext))
	}

	stored := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	if _, err := s.store.Save(stored, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload")
	}

	if s.activity != nil {
		s.activity.Record(models.ActivityLog{
			EntityType: "upload",
			Action:     models.ActivityActionUpdate,
			Details:    fmt.Sprintf("uploaded %s as %s", base, stored),
			AdminName:  claims.DisplayName(),
		})
	}
	s.logger.Debug("attachment stored", zap.String("file", stored), zap.Int("bytes", len(data)))

	return &models.Attachment{Path: "/uploads/" + stored, Name: base}, nil
}
