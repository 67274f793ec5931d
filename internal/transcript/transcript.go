// Package transcript turns a material source into plain text content for
// study pack generation.
package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Kind identifies where material content comes from.
type Kind string

const (
	KindManual   Kind = "manual"
	KindYouTube  Kind = "youtube"
	KindDocument Kind = "document"
)

// Source describes one piece of material to acquire text for. Text is used
// for manual sources, URL for YouTube videos and Path for documents.
type Source struct {
	Kind Kind
	Text string
	URL  string
	Path string
}

// Fetcher retrieves a YouTube transcript, typically through the backend.
type Fetcher interface {
	YouTubeTranscript(ctx context.Context, url string) (title, transcript string, err error)
}

// Acquirer resolves sources into text. Acquire never fails: when a source
// cannot be read the returned text explains what went wrong so the
// instructor can paste content manually.
type Acquirer struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewAcquirer creates an Acquirer. fetcher may be nil when YouTube sources
// are not used.
func NewAcquirer(fetcher Fetcher, logger *zap.Logger) *Acquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acquirer{fetcher: fetcher, logger: logger.Named("transcript")}
}

// Acquire returns the text content for src.
func (a *Acquirer) Acquire(ctx context.Context, src Source) string {
	switch src.Kind {
	case KindYouTube:
		return a.youtube(ctx, src.URL)
	case KindDocument:
		return a.document(src.Path)
	default:
		return src.Text
	}
}

func (a *Acquirer) youtube(ctx context.Context, url string) string {
	if a.fetcher == nil {
		return youtubeFailure("no transcript service configured")
	}
	title, text, err := a.fetcher.YouTubeTranscript(ctx, url)
	if err != nil {
		a.logger.Warn("youtube transcript unavailable", zap.String("url", url), zap.Error(err))
		return youtubeFailure(err.Error())
	}
	a.logger.Info("youtube transcript fetched",
		zap.String("title", title),
		zap.Int("chars", len(text)))
	return text
}

func youtubeFailure(reason string) string {
	return fmt.Sprintf(`Failed to fetch transcript from YouTube video. Error: %s

This could be because:
1. The video doesn't have captions/subtitles enabled
2. The video has disabled transcript access
3. Network connectivity issues
4. Backend server is not running

Please paste the transcript manually in the text area, or choose a different video with captions enabled.`, reason)
}

func (a *Acquirer) document(path string) string {
	name := filepath.Base(path)

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		a.logger.Warn("document unreadable", zap.String("path", path), zap.Error(err))
		return documentPlaceholder(name, "unreadable")
	}
	if !mt.Is("text/plain") {
		return documentPlaceholder(name, mt.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		a.logger.Warn("document unreadable", zap.String("path", path), zap.Error(err))
		return documentPlaceholder(name, "unreadable")
	}
	return string(data)
}

func documentPlaceholder(name, mime string) string {
	return fmt.Sprintf(`Placeholder content from %s.

To fully process %s files, you would need to integrate:
- a PDF text extractor for PDF files
- a DOCX converter for Word documents

For now, please use .txt files or paste the content manually.`, name, mime)
}
