package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"maturity-service/internal/database/minio"
	"maturity-service/internal/models"

	"github.com/google/uuid"
)

const maxAttachmentBytes = 10 << 20

// AttachmentService stores uploaded evidence documents in object storage and
// hands back the minio:// location to use as an evidence_location.
type AttachmentService struct {
	storage ReportArchiver
}

func NewAttachmentService(storage ReportArchiver) *AttachmentService {
	return &AttachmentService{storage: storage}
}

// StoreEvidence uploads one evidence document and returns its object location.
func (s *AttachmentService) StoreEvidence(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	if s.storage == nil {
		return "", models.NewValidationError("STORAGE_UNAVAILABLE", "object storage is not configured")
	}
	if len(data) == 0 {
		return "", models.NewValidationError("EMPTY_ATTACHMENT", "attachment content is empty")
	}
	if len(data) > maxAttachmentBytes {
		return "", models.NewValidationError("ATTACHMENT_TOO_LARGE", "attachment exceeds the 10MB limit")
	}

	cleaned := path.Base(strings.TrimSpace(fileName))
	if cleaned == "" || cleaned == "." || cleaned == "/" {
		cleaned = "evidence"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("%s/%s", uuid.NewString(), cleaned)
	err := s.storage.UploadBytes(ctx, minio.Storage.EvidenceAttachments, objectName, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store evidence attachment: %w", err)
	}

	return fmt.Sprintf("%s%s/%s", minio.ObjectLocationPrefix, minio.Storage.EvidenceAttachments, objectName), nil
}
