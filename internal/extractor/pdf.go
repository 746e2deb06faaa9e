package extractor

import (
	"bytes"
	"strings"

	"mockanytime/internal/logger"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// extractPDF decodes the whole document and concatenates all page text in
// reading order. The library panics on some malformed inputs, so every step
// is guarded; a document that cannot be decoded degrades to empty text with a
// diagnostic instead of failing the request.
func extractPDF(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Get().Warn("pdf decoding panicked", zap.Any("panic", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Get().Warn("failed to open pdf", zap.Error(err))
		return ""
	}

	pages := 0
	func() {
		defer func() { _ = recover() }()
		pages = reader.NumPage()
	}()
	if pages <= 0 {
		return ""
	}

	var text strings.Builder
	for i := 1; i <= pages; i++ {
		func() {
			defer func() { _ = recover() }()
			page := reader.Page(i)
			if page.V.IsNull() {
				return
			}
			pageText, err := page.GetPlainText(nil)
			if err != nil {
				// Unreadable page; keep whatever the rest of the document yields.
				return
			}
			pageText = strings.TrimSpace(pageText)
			if pageText == "" {
				return
			}
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(pageText)
		}()
	}

	return text.String()
}
