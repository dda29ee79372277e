package ryde

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var _ ProfileSink = (*RepositoryProfileSink)(nil)
var _ ProfileSink = (*HTTPProfileSink)(nil)

// RepositoryProfileSink persists profiles straight into the local database.
type RepositoryProfileSink struct {
	handler *RecordProfileHandler
}

func NewRepositoryProfileSink(repo RepositoryManager) *RepositoryProfileSink {
	return &RepositoryProfileSink{
		handler: NewRecordProfileHandler(repo),
	}
}

func (s *RepositoryProfileSink) Persist(ctx context.Context, name, email, providerAccountID string) error {
	err := s.handler.Execute(ctx, RecordProfileMessage{
		Name:    name,
		Email:   email,
		ClerkID: providerAccountID,
	})
	if err != nil {
		return GlobalError(MsgProfileNotRecorded, err)
	}
	return nil
}

// HTTPProfileSink posts the profile to a backend API, for deployments where
// the record lives behind a service instead of a local database.
type HTTPProfileSink struct {
	url    string
	client *http.Client
}

type HTTPProfileSinkOption func(*HTTPProfileSink)

func WithSinkHTTPClient(client *http.Client) HTTPProfileSinkOption {
	return func(s *HTTPProfileSink) {
		if client != nil {
			s.client = client
		}
	}
}

func NewHTTPProfileSink(url string, opts ...HTTPProfileSinkOption) *HTTPProfileSink {
	s := &HTTPProfileSink{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

func (s *HTTPProfileSink) Persist(ctx context.Context, name, email, providerAccountID string) error {
	payload, err := json.Marshal(map[string]string{
		"name":    name,
		"email":   email,
		"clerkId": providerAccountID,
	})
	if err != nil {
		return GlobalError(MsgProfileNotRecorded, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return GlobalError(MsgProfileNotRecorded, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return GlobalError(MsgProfileNotRecorded, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return GlobalError(
			MsgProfileNotRecorded,
			fmt.Errorf("profile API returned %d: %s", resp.StatusCode, string(body)),
		)
	}

	return nil
}
