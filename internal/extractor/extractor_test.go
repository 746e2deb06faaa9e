package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"mockanytime/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOCR lets each test script the engine's behavior per image.
type stubOCR struct {
	recognize func(ctx context.Context, image []byte) (string, error)
}

func (s *stubOCR) Recognize(ctx context.Context, image []byte) (string, error) {
	return s.recognize(ctx, image)
}

func noOCR() *stubOCR {
	return &stubOCR{recognize: func(context.Context, []byte) (string, error) {
		return "", domain.ErrOCRUnavailable
	}}
}

func TestExtractTxtReturnsRawBytes(t *testing.T) {
	svc := NewService(noOCR())

	text, err := svc.Extract(context.Background(), []byte("Q: 2+2=? a) 3 b) 4"), "exam.TXT")
	require.NoError(t, err)
	assert.Equal(t, "Q: 2+2=? a) 3 b) 4", text)
}

func TestExtractMissingFilename(t *testing.T) {
	svc := NewService(noOCR())

	text, err := svc.Extract(context.Background(), []byte("content"), "")
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = svc.Extract(context.Background(), []byte("content"), "no-extension")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	svc := NewService(noOCR())

	_, err := svc.Extract(context.Background(), []byte("data"), "upload.xyz")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrUnsupportedFormat, domainErr.Code)
	assert.Contains(t, domainErr.Message, "upload.xyz")
}

func TestExtractImageRoutesThroughOCR(t *testing.T) {
	svc := NewService(&stubOCR{recognize: func(_ context.Context, image []byte) (string, error) {
		assert.Equal(t, []byte{0x42, 0x4d, 0x01}, image)
		return "recognized text", nil
	}})

	text, err := svc.Extract(context.Background(), []byte{0x42, 0x4d, 0x01}, "scan.bmp")
	require.NoError(t, err)
	assert.Equal(t, "recognized text", text)
}

func TestExtractImageWithoutEngineYieldsEmptyText(t *testing.T) {
	svc := NewService(noOCR())

	text, err := svc.Extract(context.Background(), []byte{0x42, 0x4d}, "scan.bmp")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractGarbagePDFDegradesToEmptyText(t *testing.T) {
	svc := NewService(noOCR())

	text, err := svc.Extract(context.Background(), []byte("this is not a pdf"), "broken.pdf")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractGarbageDocxDegradesToEmptyText(t *testing.T) {
	svc := NewService(noOCR())

	text, err := svc.Extract(context.Background(), []byte("this is not a zip"), "broken.docx")
	require.NoError(t, err)
	assert.Empty(t, text)
}

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildDocx(t *testing.T, media map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)

	for name, content := range media {
		mw, err := zw.Create(name)
		require.NoError(t, err)
		_, err = mw.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocxParagraphText(t *testing.T) {
	svc := NewService(noOCR())
	data := buildDocx(t, nil)

	text, err := svc.Extract(context.Background(), data, "exam.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
	assert.NotContains(t, text, imageTextMarker)
}

func TestExtractDocxAppendsImageTextBlocks(t *testing.T) {
	data := buildDocx(t, map[string][]byte{
		"word/media/image1.png": []byte("img-one"),
		"word/media/image2.png": []byte("img-two"),
	})

	svc := NewService(&stubOCR{recognize: func(_ context.Context, image []byte) (string, error) {
		if bytes.Equal(image, []byte("img-one")) {
			return "text from picture one", nil
		}
		return "", nil // second picture yields nothing
	}})

	text, err := svc.Extract(context.Background(), data, "exam.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, imageTextMarker+" text from picture one")
	assert.Equal(t, 1, strings.Count(text, imageTextMarker))
}

func TestExtractDocxSingleImageFailureIsIsolated(t *testing.T) {
	data := buildDocx(t, map[string][]byte{
		"word/media/image1.png": []byte("img-one"),
		"word/media/image2.png": []byte("img-two"),
	})

	svc := NewService(&stubOCR{recognize: func(_ context.Context, image []byte) (string, error) {
		if bytes.Equal(image, []byte("img-one")) {
			return "", errors.New("corrupt image")
		}
		return "text from picture two", nil
	}})

	text, err := svc.Extract(context.Background(), data, "exam.docx")
	require.NoError(t, err)
	// The document's own text survives and the healthy image still contributes.
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
	assert.Contains(t, text, imageTextMarker+" text from picture two")
}

func TestExtractDocxImageBlocksFollowDocumentOrder(t *testing.T) {
	media := make(map[string][]byte)
	for i := 1; i <= 12; i++ {
		media[fmt.Sprintf("word/media/image%d.png", i)] = []byte(fmt.Sprintf("img-%d;", i))
	}
	data := buildDocx(t, media)

	// Echo each picture's payload so the output reveals block order.
	svc := NewService(&stubOCR{recognize: func(_ context.Context, image []byte) (string, error) {
		return string(image), nil
	}})

	text, err := svc.Extract(context.Background(), data, "exam.docx")
	require.NoError(t, err)

	previous := -1
	for i := 1; i <= 12; i++ {
		pos := strings.Index(text, fmt.Sprintf("%s img-%d;", imageTextMarker, i))
		require.NotEqual(t, -1, pos, "missing block for image%d", i)
		assert.Greater(t, pos, previous, "block for image%d out of order", i)
		previous = pos
	}
}

func TestMediaNameLess(t *testing.T) {
	assert.True(t, mediaNameLess("word/media/image2.png", "word/media/image10.png"))
	assert.False(t, mediaNameLess("word/media/image10.png", "word/media/image2.png"))
	assert.True(t, mediaNameLess("word/media/image9.png", "word/media/image10.png"))
	assert.True(t, mediaNameLess("word/media/image1.png", "word/media/image2.png"))
	assert.True(t, mediaNameLess("word/media/image02.png", "word/media/image10.png"))
}

func TestExtractDocxEngineUnavailableKeepsDocumentText(t *testing.T) {
	data := buildDocx(t, map[string][]byte{
		"word/media/image1.png": []byte("img-one"),
		"word/media/image2.png": []byte("img-two"),
		"word/media/image3.png": []byte("img-three"),
	})

	svc := NewService(noOCR())

	text, err := svc.Extract(context.Background(), data, "exam.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
	assert.NotContains(t, text, imageTextMarker)
}
