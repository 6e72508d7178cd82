package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"intervue/pkg/scoring"
)

// Client implements scoring.Service, scoring.Directory and scoring.Intake over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

var (
	_ scoring.Service   = (*Client)(nil)
	_ scoring.Directory = (*Client)(nil)
	_ scoring.Intake    = (*Client)(nil)
)

// Option customizes a Client.
type Option func(*Client)

// WithLogger attaches a logger for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// New constructs a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithTimeout constructs a client for the given base URL with a request timeout.
func NewWithTimeout(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := New(baseURL, opts...)
	c.client = &http.Client{Timeout: timeout}
	return c
}

type beginRequest struct {
	Candidate scoring.Candidate `json:"candidate"`
}

type resumeRequest struct {
	InterviewID int `json:"interview_id"`
}

type candidatesResponse struct {
	Candidates []scoring.CandidateSummary `json:"candidates"`
}

type uploadResponse struct {
	Data scoring.Candidate `json:"data"`
}

// Begin starts a new interview for the candidate.
func (c *Client) Begin(ctx context.Context, candidate scoring.Candidate) (scoring.BeginResponse, error) {
	var res scoring.BeginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/start-interview", beginRequest{Candidate: candidate}, &res); err != nil {
		return scoring.BeginResponse{}, err
	}
	return res, nil
}

// Submit sends one answer and returns the next question or the completion.
func (c *Client) Submit(ctx context.Context, req scoring.SubmitRequest) (scoring.SubmitResult, error) {
	var res scoring.SubmitResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/submit-answer", req, &res); err != nil {
		return scoring.SubmitResult{}, err
	}
	if err := res.Check(); err != nil {
		return scoring.SubmitResult{}, err
	}
	return res, nil
}

// Resume reattaches to an in-progress interview.
func (c *Client) Resume(ctx context.Context, interviewID int) (scoring.ResumeResponse, error) {
	var res scoring.ResumeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/resume-interview", resumeRequest{InterviewID: interviewID}, &res); err != nil {
		return scoring.ResumeResponse{}, err
	}
	return res, nil
}

// CheckUnfinished asks whether an interview was left in progress.
func (c *Client) CheckUnfinished(ctx context.Context) (scoring.Unfinished, error) {
	var res scoring.Unfinished
	if err := c.doJSON(ctx, http.MethodGet, "/api/check-unfinished-interview", nil, &res); err != nil {
		return scoring.Unfinished{}, err
	}
	return res, nil
}

// ListCandidates returns the directory in service order.
func (c *Client) ListCandidates(ctx context.Context) ([]scoring.CandidateSummary, error) {
	var res candidatesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/candidates", nil, &res); err != nil {
		return nil, err
	}
	return res.Candidates, nil
}

// CandidateDetail returns one candidate with the full interview record.
func (c *Client) CandidateDetail(ctx context.Context, candidateID int) (scoring.CandidateDetail, error) {
	var res scoring.CandidateDetail
	if err := c.doJSON(ctx, http.MethodGet, "/api/candidate/"+strconv.Itoa(candidateID), nil, &res); err != nil {
		return scoring.CandidateDetail{}, err
	}
	return res, nil
}

// UploadResume sends a resume document to the intake and returns the extracted record.
func (c *Client) UploadResume(ctx context.Context, filename string, body io.Reader) (scoring.Candidate, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return scoring.Candidate{}, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return scoring.Candidate{}, fmt.Errorf("read resume: %w", err)
	}
	if err := form.Close(); err != nil {
		return scoring.Candidate{}, err
	}
	data, status, err := c.do(ctx, http.MethodPost, "/api/upload-resume", form.FormDataContentType(), buf.Bytes())
	if err != nil {
		return scoring.Candidate{}, err
	}
	var res uploadResponse
	if err := decodeBody(status, data, &res); err != nil {
		return scoring.Candidate{}, err
	}
	return res.Data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	var payload []byte
	contentType := ""
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = encoded
		contentType = "application/json"
	}
	body, status, err := c.do(ctx, method, path, contentType, payload)
	if err != nil {
		return err
	}
	return decodeBody(status, body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, payload []byte) ([]byte, int, error) {
	url := c.baseURL + path
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request done")
	return body, resp.StatusCode, nil
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func decodeBody(status int, body []byte, out any) error {
	if status < 200 || status >= 300 {
		return decodeHTTPError(status, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Success != nil && !*env.Success {
		message := env.Error
		if message == "" {
			message = "request was not successful"
		}
		return &scoring.ServiceError{Status: status, Message: message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeHTTPError(status int, body []byte) error {
	var resp envelope
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &scoring.ServiceError{Status: status, Message: resp.Error}
	}
	return &scoring.ServiceError{Status: status}
}
