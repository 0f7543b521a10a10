// Package tesseract implements ocr.Engine with the gosseract client.
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/sbuxpartner/sbuxpartners/internal/ocr"
)

// Ensure Engine implements ocr.Engine
var _ ocr.Engine = (*Engine)(nil)

// Engine runs Tesseract through gosseract. A new client is created per call,
// so an Engine is safe for concurrent use.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed engine. With no languages, Tesseract's
// default ("eng") is used.
func New(languages ...string) *Engine {
	return &Engine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on an encoded image (PNG, JPEG, ...).
func (e *Engine) Recognize(ctx context.Context, image []byte) (*ocr.Result, error) {
	if len(image) == 0 {
		return nil, ocr.ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	c := e.clientFactory()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	// Reports are a single uniform block of table text.
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	lines := extractLines(c)
	if strings.TrimSpace(text) == "" {
		text = ocr.TextFromLines(lines)
	}

	return &ocr.Result{
		Text:     text,
		Lines:    lines,
		Engine:   e.Name(),
		Duration: time.Since(start),
	}, nil
}

func extractLines(c *gosseract.Client) []ocr.Line {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil || len(boxes) == 0 {
		return nil
	}
	lines := make([]ocr.Line, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, ocr.Line{Text: text, Confidence: b.Confidence / 100.0})
	}
	return lines
}
