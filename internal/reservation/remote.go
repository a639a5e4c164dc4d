package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteStore talks to a JSON reservations API.
type RemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRemoteStore(baseURL, token string, client *http.Client) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		client:  client,
	}
}

func (s *RemoteStore) List(ctx context.Context) ([]Reservation, error) {
	var out []Reservation
	if err := s.requestJSON(ctx, http.MethodGet, "/reservations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RemoteStore) Create(ctx context.Context, input CreateInput) (Reservation, error) {
	var out Reservation
	if err := s.requestJSON(ctx, http.MethodPost, "/reservations", input, &out); err != nil {
		return Reservation{}, err
	}
	return out, nil
}

func (s *RemoteStore) Delete(ctx context.Context, id int64) error {
	return s.requestJSON(ctx, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil, nil)
}

func (s *RemoteStore) UpdateStatus(ctx context.Context, id int64, status Status) (Reservation, error) {
	if !status.Valid() {
		return Reservation{}, ErrInvalidStatus
	}
	var out Reservation
	body := map[string]Status{"status": status}
	if err := s.requestJSON(ctx, http.MethodPatch, fmt.Sprintf("/reservations/%d/status", id), body, &out); err != nil {
		return Reservation{}, err
	}
	return out, nil
}

func (s *RemoteStore) requestJSON(ctx context.Context, method, path string, body, out any) error {
	if s.baseURL == "" {
		return ErrRemoteNotConfigured
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode}
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// APIError is returned for any non-2xx response from the remote API.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reservations api failed (%d)", e.Status)
}
