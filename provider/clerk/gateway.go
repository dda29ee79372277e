package clerk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/The-CodeINN/ryde"
)

var _ ryde.IdentityGateway = (*Gateway)(nil)

// Gateway drives account provisioning against the Clerk frontend API. Every
// provider fault is translated into a *ryde.FlowError before it leaves this
// package.
type Gateway struct {
	config Config
	client *http.Client
}

// NewGateway builds a Gateway for the configured Clerk instance.
func NewGateway(cfg Config) (*Gateway, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Gateway{
		config: cfg,
		client: cfg.client(),
	}, nil
}

// CreateAccount registers the credentials as a new sign-up attempt.
func (g *Gateway) CreateAccount(ctx context.Context, email, password string) (ryde.AccountHandle, error) {
	payload := url.Values{}
	payload.Set("email_address", email)
	payload.Set("password", password)

	var out signUpEnvelope
	if err := g.post(ctx, "/v1/client/sign_ups", payload, &out); err != nil {
		return "", err
	}

	if out.Response.ID == "" {
		return "", ryde.Unrecoverable(fmt.Errorf("clerk: sign-up response missing id"))
	}

	return ryde.AccountHandle(out.Response.ID), nil
}

// RequestVerificationCode asks Clerk to email a one-time code for the
// sign-up attempt.
func (g *Gateway) RequestVerificationCode(ctx context.Context, handle ryde.AccountHandle) error {
	payload := url.Values{}
	payload.Set("strategy", "email_code")

	path := fmt.Sprintf("/v1/client/sign_ups/%s/prepare_verification", handle)
	return g.post(ctx, path, payload, &signUpEnvelope{})
}

// VerifyCode submits the user-entered code for the sign-up attempt.
func (g *Gateway) VerifyCode(ctx context.Context, handle ryde.AccountHandle, code string) (*ryde.VerificationResult, error) {
	payload := url.Values{}
	payload.Set("strategy", "email_code")
	payload.Set("code", code)

	var out signUpEnvelope
	path := fmt.Sprintf("/v1/client/sign_ups/%s/attempt_verification", handle)
	if err := g.post(ctx, path, payload, &out); err != nil {
		return nil, err
	}

	result := &ryde.VerificationResult{
		Status:    verificationStatus(out.Response.Status),
		AccountID: out.Response.CreatedUserID,
		SessionID: out.Response.CreatedSessionID,
	}

	return result, nil
}

// SignIn authenticates an existing account with its identifier and password.
func (g *Gateway) SignIn(ctx context.Context, identifier, password string) (*ryde.VerificationResult, error) {
	payload := url.Values{}
	payload.Set("identifier", identifier)
	payload.Set("password", password)
	payload.Set("strategy", "password")

	var out signInEnvelope
	if err := g.post(ctx, "/v1/client/sign_ins", payload, &out); err != nil {
		return nil, err
	}

	result := &ryde.VerificationResult{
		Status:    verificationStatus(out.Response.Status),
		AccountID: out.Response.UserID,
		SessionID: out.Response.CreatedSessionID,
	}

	return result, nil
}

// ActivateSession touches the session so the client treats it as active.
func (g *Gateway) ActivateSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ryde.Unrecoverable(fmt.Errorf("clerk: missing session id"))
	}

	path := fmt.Sprintf("/v1/client/sessions/%s/touch", sessionID)
	return g.post(ctx, path, url.Values{}, &sessionEnvelope{})
}

func (g *Gateway) post(ctx context.Context, path string, payload url.Values, out any) error {
	endpoint := g.config.baseURL() + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return ryde.Unrecoverable(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return ryde.Unrecoverable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ryde.Unrecoverable(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return normalizeAPIError(resp.StatusCode, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return ryde.Unrecoverable(fmt.Errorf("clerk: decode response: %w", err))
		}
	}

	return nil
}

type signUpEnvelope struct {
	Response struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		CreatedUserID    string `json:"created_user_id"`
		CreatedSessionID string `json:"created_session_id"`
	} `json:"response"`
}

type signInEnvelope struct {
	Response struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		UserID           string `json:"user_id"`
		CreatedSessionID string `json:"created_session_id"`
	} `json:"response"`
}

type sessionEnvelope struct {
	Response struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"response"`
}

type apiError struct {
	Errors []struct {
		Code        string `json:"code"`
		Message     string `json:"message"`
		LongMessage string `json:"long_message"`
		Meta        struct {
			ParamName string `json:"param_name"`
		} `json:"meta"`
	} `json:"errors"`
}

func verificationStatus(status string) ryde.VerificationStatus {
	if status == "complete" {
		return ryde.VerificationComplete
	}
	return ryde.VerificationIncomplete
}

// normalizeAPIError maps the structured Clerk error payload onto the flow
// error taxonomy: param-scoped errors become field errors, structured errors
// without a param become global, and everything else is unrecoverable.
func normalizeAPIError(status int, body []byte) error {
	var payload apiError
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) == 0 {
		return ryde.Unrecoverable(fmt.Errorf("clerk: API returned %d: %s", status, string(body)))
	}

	first := payload.Errors[0]
	message := first.LongMessage
	if message == "" {
		message = first.Message
	}

	if field, ok := paramField(first.Meta.ParamName); ok {
		return ryde.FieldError(field, message)
	}

	return ryde.GlobalError(message, fmt.Errorf("clerk: %s (%d)", first.Code, status))
}

func paramField(param string) (string, bool) {
	switch param {
	case "email_address", "identifier":
		return ryde.FieldEmail, true
	case "password":
		return ryde.FieldPassword, true
	default:
		return "", false
	}
}
