package event

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
)

// RemoteStore talks to a JSON events API.
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

func (s *RemoteStore) List(ctx context.Context) ([]EventScheduleItem, error) {
	var out []EventScheduleItem
	if err := s.requestJSON(ctx, http.MethodGet, "/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RemoteStore) Get(ctx context.Context, id string) (EventScheduleItem, error) {
	var out EventScheduleItem
	if err := s.requestJSON(ctx, http.MethodGet, eventPath(id), nil, &out); err != nil {
		return EventScheduleItem{}, err
	}
	return out, nil
}

func (s *RemoteStore) Create(ctx context.Context, input CreateInput) (EventScheduleItem, error) {
	var out EventScheduleItem
	if err := s.requestJSON(ctx, http.MethodPost, "/events", input, &out); err != nil {
		return EventScheduleItem{}, err
	}
	return out, nil
}

func (s *RemoteStore) Update(ctx context.Context, id string, input CreateInput) (EventScheduleItem, error) {
	var out EventScheduleItem
	if err := s.requestJSON(ctx, http.MethodPut, eventPath(id), input, &out); err != nil {
		return EventScheduleItem{}, err
	}
	return out, nil
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	return s.requestJSON(ctx, http.MethodDelete, eventPath(id), nil, nil)
}

func (s *RemoteStore) Reserve(ctx context.Context, id string, seats int) (EventScheduleItem, error) {
	if seats < 1 {
		return EventScheduleItem{}, ErrInvalidSeats
	}
	var out EventScheduleItem
	body := map[string]int{"seats": seats}
	err := s.requestJSON(ctx, http.MethodPost, eventPath(id)+"/reserve", body, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return EventScheduleItem{}, ErrInsufficientSeats
	}
	if err != nil {
		return EventScheduleItem{}, err
	}
	return out, nil
}

func (s *RemoteStore) Release(ctx context.Context, id string, seats int) error {
	if seats < 1 {
		return ErrInvalidSeats
	}
	return s.requestJSON(ctx, http.MethodPost, eventPath(id)+"/release", map[string]int{"seats": seats}, nil)
}

func eventPath(id string) string {
	return "/events/" + url.PathEscape(id)
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

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode}
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("events api failed (%d)", e.Status)
}
