package extractor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"mockanytime/internal/domain"
	"mockanytime/internal/logger"

	"go.uber.org/zap"
)

// Service converts a file's raw bytes plus its declared filename into plain
// text, dispatching by filename suffix. It consults the OCR engine for native
// image files and for pictures embedded in Word documents.
type Service struct {
	ocr domain.OCREngine
}

// NewService creates a new text extraction Service.
func NewService(ocr domain.OCREngine) *Service {
	return &Service{ocr: ocr}
}

var _ domain.TextExtractor = (*Service)(nil)

// Extract implements domain.TextExtractor. A missing filename or a filename
// without an extension yields empty text rather than an error; an unknown
// extension is a caller-input error and is not retried.
func (s *Service) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if filename == "" {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case "":
		return "", nil
	case ".pdf":
		return extractPDF(data), nil
	case ".docx":
		return s.extractDOCX(ctx, data), nil
	case ".txt":
		return string(data), nil
	case ".png", ".jpg", ".jpeg", ".bmp":
		return s.extractImage(ctx, data), nil
	default:
		return "", domain.NewUnsupportedFormatError(filename)
	}
}

// extractImage routes the whole file through the OCR engine. An unavailable
// engine or a failed recognition degrades to empty text.
func (s *Service) extractImage(ctx context.Context, data []byte) string {
	text, err := s.ocr.Recognize(ctx, data)
	if err != nil {
		if errors.Is(err, domain.ErrOCRUnavailable) {
			logger.Get().Warn("OCR engine unavailable; image yields no text")
		} else {
			logger.Get().Warn("image recognition failed", zap.Error(err))
		}
		return ""
	}
	return text
}
