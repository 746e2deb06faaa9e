package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"sort"
	"strings"
	"sync/atomic"

	"mockanytime/internal/domain"
	"mockanytime/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// imageTextMarker delimits OCR-derived blocks appended after the document's
// own paragraph text.
const imageTextMarker = "[Image Text Content]:"

// maxConcurrentOCR bounds the per-document fan-out over embedded pictures.
const maxConcurrentOCR = 2

// extractDOCX concatenates all paragraph text from word/document.xml, then
// OCRs every embedded picture in document order and appends each non-blank
// result as a delimited block. A single picture failing never aborts the rest
// of the document; an unavailable engine stops further OCR attempts for this
// document only.
func (s *Service) extractDOCX(ctx context.Context, data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Get().Warn("failed to open docx archive", zap.Error(err))
		return ""
	}

	var docText string
	var mediaNames []string
	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			docText = parseDocumentXML(f)
		case strings.HasPrefix(f.Name, "word/media/"):
			mediaNames = append(mediaNames, f.Name)
		}
	}
	// Media parts are numbered (image1, image2, ...) which matches their
	// order of appearance in the document. Digit runs must compare by value:
	// plain lexicographic order would put image10 before image2.
	sort.SliceStable(mediaNames, func(i, j int) bool {
		return mediaNameLess(mediaNames[i], mediaNames[j])
	})

	var text strings.Builder
	text.WriteString(strings.TrimSpace(docText))

	for _, imageText := range s.recognizeEmbeddedImages(ctx, zr, mediaNames) {
		if imageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(imageTextMarker)
		text.WriteString(" ")
		text.WriteString(imageText)
	}

	return text.String()
}

// recognizeEmbeddedImages runs OCR over the named media parts. Images are
// independent, so they are processed concurrently; results come back in
// document order and each failure is isolated to its own image. Once the
// engine reports itself unavailable, remaining images are skipped.
func (s *Service) recognizeEmbeddedImages(ctx context.Context, zr *zip.Reader, names []string) []string {
	results := make([]string, len(names))
	if len(names) == 0 {
		return results
	}

	var engineGone atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOCR)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if engineGone.Load() {
				return nil
			}
			img, err := readZipFile(zr, name)
			if err != nil {
				logger.Get().Warn("failed to read embedded image",
					zap.String("name", name),
					zap.Error(err))
				return nil
			}
			text, err := s.ocr.Recognize(gctx, img)
			if err != nil {
				if errors.Is(err, domain.ErrOCRUnavailable) {
					engineGone.Store(true)
					logger.Get().Warn("OCR engine unavailable; skipping remaining embedded images")
				} else {
					logger.Get().Warn("embedded image recognition failed",
						zap.String("name", name),
						zap.Error(err))
				}
				return nil
			}
			results[i] = strings.TrimSpace(text)
			return nil
		})
	}

	// Failures are swallowed per image, so Wait never returns an error.
	_ = g.Wait()
	return results
}

// mediaNameLess compares media part names treating each run of digits as a
// number, so image2.png sorts before image10.png.
func mediaNameLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			aNum, aRest := leadingDigits(a)
			bNum, bRest := leadingDigits(b)
			if aNum != bNum {
				if len(aNum) != len(bNum) {
					return len(aNum) < len(bNum)
				}
				return aNum < bNum
			}
			a, b = aRest, bRest
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// leadingDigits splits off the leading digit run, with leading zeros removed
// so the runs compare by numeric value.
func leadingDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits, rest = s[:i], s[i:]
	digits = strings.TrimLeft(digits, "0")
	return digits, rest
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseDocumentXML walks word/document.xml and collects the text runs
// (<w:t>), emitting a newline at each paragraph boundary (</w:p>).
func parseDocumentXML(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		logger.Get().Warn("failed to open word/document.xml", zap.Error(err))
		return ""
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var text strings.Builder
	inTextRun := false

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				text.Write(t)
			}
		}
	}

	return text.String()
}
