// Package backend is the HTTP client for the course platform's review,
// study pack, transcript and analytics endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8081"

// Auth endpoints never clear the session on 401: a failed sign-in is not
// an expired session.
var authPaths = []string{"/auth/signin", "/auth/signup", "/auth/me"}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls the backend on behalf of a Session.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	session    *Session
	decorate   RequestDecorator
	logger     *zap.Logger
}

// New creates a Client. Every request carries the session's bearer token
// and organization header, followed by any extra decorators.
func New(session *Session, opts Options, extra ...RequestDecorator) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if session == nil {
		session = NewSession(nil)
	}

	decorators := append([]RequestDecorator{
		WithHeader("Content-Type", "application/json"),
		WithBearer(session),
		WithOrg(session),
	}, extra...)

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: hc,
		session:    session,
		decorate:   Chain(decorators...),
		logger:     logger.Named("backend"),
	}
}

// Session returns the client's session.
func (c *Client) Session() *Session { return c.session }

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// GetReviewDraft returns the latest draft for a material.
func (c *Client) GetReviewDraft(ctx context.Context, materialID string) (*ReviewDraft, error) {
	var resp ReviewDraftResponse
	if err := c.doJSON(ctx, http.MethodGet, "/ai/review/"+url.PathEscape(materialID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Draft == nil {
		return nil, fmt.Errorf("review draft %s: empty response", materialID)
	}
	return resp.Draft, nil
}

// ApproveDraft publishes the edited draft.
func (c *Client) ApproveDraft(ctx context.Context, materialID string, req ApproveRequest) (*ReviewDraft, error) {
	var resp ReviewDraftResponse
	if err := c.doJSON(ctx, http.MethodPost, "/ai/review/"+url.PathEscape(materialID)+"/approve", req, &resp); err != nil {
		return nil, err
	}
	return resp.Draft, nil
}

// RegenerateDraft asks the backend to produce a new draft.
func (c *Client) RegenerateDraft(ctx context.Context, materialID, notes string) (*ReviewDraft, error) {
	var resp ReviewDraftResponse
	if err := c.doJSON(ctx, http.MethodPost, "/ai/review/"+url.PathEscape(materialID)+"/regenerate", RegenerateRequest{Notes: notes}, &resp); err != nil {
		return nil, err
	}
	return resp.Draft, nil
}

// UploadDraft stores a locally assembled pack as a pending review draft.
func (c *Client) UploadDraft(ctx context.Context, req UploadRequest) (*ReviewDraft, error) {
	var resp ReviewDraftResponse
	if err := c.doJSON(ctx, http.MethodPost, "/ai/studypack", req, &resp); err != nil {
		return nil, err
	}
	return resp.Draft, nil
}

// GetStudyPack returns the published pack for a material. It returns
// ErrNotFound when nothing has been published yet.
func (c *Client) GetStudyPack(ctx context.Context, materialID string) (*PublishedPack, error) {
	var resp PublishedPack
	if err := c.doJSON(ctx, http.MethodGet, "/ai/studypack/"+url.PathEscape(materialID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchTranscript asks the backend to retrieve a video transcript.
func (c *Client) FetchTranscript(ctx context.Context, videoURL string) (string, error) {
	var resp TranscriptResponse
	if err := c.doJSON(ctx, http.MethodPost, "/ai/transcript", TranscriptRequest{VideoURL: videoURL}, &resp); err != nil {
		return "", err
	}
	return resp.Transcript, nil
}

// YouTubeTranscript fetches a video's title and transcript.
func (c *Client) YouTubeTranscript(ctx context.Context, videoURL string) (string, string, error) {
	var resp TranscriptResponse
	path := "/youtube/transcript?url=" + url.QueryEscape(videoURL)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", "", err
	}
	return resp.Title, resp.Transcript, nil
}

// SubmitQuizAttempt records a finished quiz.
func (c *Client) SubmitQuizAttempt(ctx context.Context, attempt QuizAttempt) (*QuizAttemptResult, error) {
	var resp QuizAttemptResult
	if err := c.doJSON(ctx, http.MethodPost, "/analytics/quiz/attempt", attempt, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.decorate(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		herr := parseHTTPError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(path) {
			if err := c.session.ClearTokens(ctx); err != nil {
				c.logger.Warn("failed to clear session", zap.Error(err))
			}
		}
		return herr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func parseHTTPError(status int, raw []byte) *HTTPError {
	var body ErrorResponse
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = body.Error
		if msg == "" {
			msg = body.Message
		}
	}
	return &HTTPError{StatusCode: status, Message: msg}
}

func isAuthPath(path string) bool {
	for _, p := range authPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// IsUnauthorized reports whether err is an expired or rejected session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
