// Package ocr defines the boundary to the text recognition engine.
//
// The parser never calls an engine itself; callers recognize an image, then
// hand Result.Text to the parser.
package ocr

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyImage is returned when there is no image data to recognize.
var ErrEmptyImage = errors.New("ocr: empty image")

// Engine recognizes text in an image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (*Result, error)
}

// Result is the text recognized in one image.
type Result struct {
	// Text is the full transcription, one line per text line.
	Text string

	// Lines are the recognized lines with the engine's confidence in [0, 1].
	Lines []Line

	// Engine is the name of the engine that produced the result.
	Engine string

	Duration time.Duration
}

// Line is one recognized line of text.
type Line struct {
	Text       string
	Confidence float64
}

// MeanConfidence averages the line confidences, or returns 0 without lines.
func (r *Result) MeanConfidence() float64 {
	if len(r.Lines) == 0 {
		return 0
	}
	var sum float64
	for _, l := range r.Lines {
		sum += l.Confidence
	}
	return sum / float64(len(r.Lines))
}

// TextFromLines joins line texts when an engine only reports lines.
func TextFromLines(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}
