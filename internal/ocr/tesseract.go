package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"mockanytime/internal/config"
	"mockanytime/internal/domain"
	"mockanytime/internal/logger"

	"go.uber.org/zap"
)

// tessdataDirs is the ordered list of conventional install locations searched
// for the tesseract language data. The first existing directory wins; if none
// exist the engine runs with its own defaults.
var tessdataDirs = []string{
	"/usr/share/tesseract-ocr/5/tessdata",
	"/usr/share/tesseract-ocr/4.00/tessdata",
	"/usr/share/tessdata",
	"/usr/local/share/tessdata",
	"/opt/homebrew/share/tessdata",
}

const defaultTimeout = 30 * time.Second

// TesseractEngine implements domain.OCREngine by shelling out to the
// tesseract binary. Recognition failures for a single image never surface as
// errors; the only error ever returned is domain.ErrOCRUnavailable when the
// binary itself is missing.
type TesseractEngine struct {
	binary    string
	dataPath  string
	languages string
	timeout   time.Duration
}

// NewTesseractEngine probes for the tesseract binary and language data once.
// A missing binary does not fail construction; the engine reports
// domain.ErrOCRUnavailable per call instead, so extraction of non-image text
// can proceed without OCR.
func NewTesseractEngine(cfg config.OCRConfig) *TesseractEngine {
	binary := cfg.TesseractPath
	if binary == "" {
		binary = "tesseract"
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		logger.Get().Warn("tesseract binary not found; OCR disabled",
			zap.String("binary", binary),
			zap.Error(err))
		resolved = ""
	}

	dataPath := cfg.DataPath
	if dataPath == "" {
		dataPath = discoverDataPath()
	}

	languages := cfg.Languages
	if languages == "" {
		languages = "eng"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &TesseractEngine{
		binary:    resolved,
		dataPath:  dataPath,
		languages: languages,
		timeout:   timeout,
	}
}

// discoverDataPath returns the first conventional tessdata directory that
// exists, or empty to let the engine use its defaults.
func discoverDataPath() string {
	for _, dir := range tessdataDirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// Available reports whether the tesseract binary was found.
func (e *TesseractEngine) Available() bool {
	return e.binary != ""
}

// Recognize writes the image to a scratch file, runs tesseract against it and
// returns the recognized text. The scratch file is removed on every exit
// path. Engine crashes, corrupt images and timeouts all degrade to an empty
// result with a diagnostic.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if e.binary == "" {
		return "", domain.ErrOCRUnavailable
	}
	l := logger.Get()

	scratch, err := os.CreateTemp("", "mockanytime-ocr-*")
	if err != nil {
		l.Warn("failed to create OCR scratch file", zap.Error(err))
		return "", nil
	}
	defer os.Remove(scratch.Name())

	if _, err := scratch.Write(image); err != nil {
		scratch.Close()
		l.Warn("failed to write OCR scratch file", zap.Error(err))
		return "", nil
	}
	if err := scratch.Close(); err != nil {
		l.Warn("failed to close OCR scratch file", zap.Error(err))
		return "", nil
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{scratch.Name(), "stdout", "-l", e.languages}
	if e.dataPath != "" {
		args = append(args, "--tessdata-dir", e.dataPath)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, e.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Covers non-zero exits, signals and context cancellation. A single
		// bad image must not take down the surrounding extraction.
		l.Warn("tesseract recognition failed",
			zap.Error(err),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
		return "", nil
	}

	return strings.TrimSpace(stdout.String()), nil
}
