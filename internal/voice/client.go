package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickcare/quickcare-backend/pkg/logging"
)

const defaultBaseURL = "https://api.vapi.ai"

// Config controls how the outbound call client behaves.
type Config struct {
	BaseURL       string
	APIKey        string
	PhoneNumberID string
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *logging.Logger
}

// Client wraps the hosted voice provider's outbound call endpoint.
type Client struct {
	apiKey        string
	baseURL       string
	phoneNumberID string
	httpClient    *http.Client
	logger        *logging.Logger
	tracer        trace.Tracer
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("voice: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		apiKey:        cfg.APIKey,
		baseURL:       baseURL,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient:    httpClient,
		logger:        logger,
		tracer:        otel.Tracer("quickcare.internal.voice"),
	}, nil
}

// CallRequest describes one outbound booking call.
type CallRequest struct {
	// CustomerNumber is the clinic's phone number in E.164 format.
	CustomerNumber string
	DoctorName     string
	PatientName    string
	Symptoms       string
}

// Call is the provider's record of a placed call.
type Call struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// APIError is a non-2xx response from the voice provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voice: provider returned %d: %s", e.StatusCode, e.Message)
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireModel struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
}

type wireVoice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

type wireAssistant struct {
	Model        wireModel `json:"model"`
	Voice        wireVoice `json:"voice"`
	FirstMessage string    `json:"firstMessage"`
}

type wireCustomer struct {
	Number string `json:"number"`
}

type outboundCallBody struct {
	PhoneNumberID string        `json:"phoneNumberId"`
	Customer      wireCustomer  `json:"customer"`
	Assistant     wireAssistant `json:"assistant"`
}

// CreateCall places a real outbound phone call to the clinic, with the agent
// briefed to negotiate a slot on the patient's behalf.
func (c *Client) CreateCall(ctx context.Context, req CallRequest) (*Call, error) {
	if strings.TrimSpace(req.CustomerNumber) == "" {
		return nil, ErrMissingPhoneNumber
	}

	ctx, span := c.tracer.Start(ctx, "voice.create_call")
	defer span.End()

	body, err := json.Marshal(outboundCallBody{
		PhoneNumberID: c.phoneNumberID,
		Customer:      wireCustomer{Number: req.CustomerNumber},
		Assistant: wireAssistant{
			Model: wireModel{
				Provider: "openai",
				Model:    "gpt-3.5-turbo",
				Messages: []wireMessage{{Role: "system", Content: agentBriefing(req)}},
			},
			Voice:        wireVoice{Provider: "11labs", VoiceID: "burt"},
			FirstMessage: "Hello, I am calling to book an appointment for a patient.",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("voice: marshal call body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call/phone", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("voice: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		span.RecordError(err)
		return nil, fmt.Errorf("voice: http error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("voice: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, data)
		span.RecordError(apiErr)
		return nil, apiErr
	}

	call := &Call{}
	if err := json.Unmarshal(data, call); err != nil {
		return nil, fmt.Errorf("voice: decode call: %w", err)
	}
	c.logger.Info("outbound call placed", "call_id", call.ID, "status", call.Status)
	return call, nil
}

func agentBriefing(req CallRequest) string {
	patient := req.PatientName
	if patient == "" {
		patient = "John Doe"
	}
	return fmt.Sprintf(`You are an AI Booking Agent calling a clinic on behalf of a patient named %s.
You wish to book an appointment with %s.
The patient's symptoms are: %q.
Negotiate a time slot for today.`, patient, req.DoctorName, req.Symptoms)
}

func decodeAPIError(status int, data []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		body.Message = "call failed"
	}
	return &APIError{StatusCode: status, Message: body.Message}
}
