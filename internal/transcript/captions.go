package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoCaptions means the video page exposed no caption tracks.
var ErrNoCaptions = errors.New("no captions found")

// ErrInvalidVideoURL means no video ID could be read from the URL.
var ErrInvalidVideoURL = errors.New("invalid YouTube URL")

var (
	captionTracksRe = regexp.MustCompile(`"captionTracks":(\[.*?\])`)
	titleRe         = regexp.MustCompile(`<title>(.*?)</title>`)
)

// CaptionScraper reads a video's public captions from its watch page.
type CaptionScraper struct {
	Client  *http.Client
	BaseURL string
}

// NewCaptionScraper returns a scraper against youtube.com.
func NewCaptionScraper(timeout time.Duration) *CaptionScraper {
	return &CaptionScraper{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: "https://www.youtube.com",
	}
}

// VideoID extracts the video ID from a watch or youtu.be URL.
func VideoID(videoURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidVideoURL, err)
	}
	if u.Host == "youtu.be" {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
		return "", ErrInvalidVideoURL
	}
	if strings.HasPrefix(u.Path, "/embed/") {
		if id := strings.TrimPrefix(u.Path, "/embed/"); id != "" {
			return id, nil
		}
	}
	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}
	return "", ErrInvalidVideoURL
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

// YouTubeTranscript returns the video's title and its captions rendered as
// "M:SS - text" lines.
func (s *CaptionScraper) YouTubeTranscript(ctx context.Context, videoURL string) (string, string, error) {
	id, err := VideoID(videoURL)
	if err != nil {
		return "", "", err
	}

	page, err := s.get(ctx, s.BaseURL+"/watch?v="+url.QueryEscape(id))
	if err != nil {
		return "", "", fmt.Errorf("fetch video page: %w", err)
	}

	m := captionTracksRe.FindSubmatch(page)
	if m == nil {
		return "", "", ErrNoCaptions
	}
	var tracks []captionTrack
	if err := json.Unmarshal(m[1], &tracks); err != nil {
		return "", "", fmt.Errorf("parse caption tracks: %w", err)
	}
	if len(tracks) == 0 {
		return "", "", ErrNoCaptions
	}

	track := tracks[0]
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			track = t
			break
		}
	}

	captions, err := s.get(ctx, track.BaseURL)
	if err != nil {
		return "", "", fmt.Errorf("fetch caption content: %w", err)
	}
	text, err := RenderCaptions(captions)
	if err != nil {
		return "", "", err
	}
	return pageTitle(page), text, nil
}

func (s *CaptionScraper) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type captionXML struct {
	Texts []struct {
		Start   string `xml:"start,attr"`
		Content string `xml:",chardata"`
	} `xml:"text"`
}

// RenderCaptions converts timed-text XML into "M:SS - text" lines separated
// by blank lines.
func RenderCaptions(data []byte) (string, error) {
	var doc captionXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse XML captions: %w", err)
	}

	var b strings.Builder
	for _, t := range doc.Texts {
		secs, _ := strconv.ParseFloat(t.Start, 64)
		total := int(secs)
		fmt.Fprintf(&b, "%d:%02d - %s\n\n", total/60, total%60, html.UnescapeString(strings.TrimSpace(t.Content)))
	}
	return b.String(), nil
}

func pageTitle(page []byte) string {
	m := titleRe.FindSubmatch(page)
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(html.UnescapeString(string(m[1])), " - YouTube")
}
