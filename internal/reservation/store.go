package reservation

import (
	"context"
	"net/http"

	"backend-getyourextreme/internal/config"
	"backend-getyourextreme/internal/db"
	"backend-getyourextreme/internal/kv"
)

// Store is implemented once per storage backend.
type Store interface {
	List(ctx context.Context) ([]Reservation, error)
	Create(ctx context.Context, input CreateInput) (Reservation, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status Status) (Reservation, error)
}

type Options struct {
	Storage    kv.Storage
	Clients    *db.Clients
	Table      string
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewStore returns the Store selected by mode.
func NewStore(mode config.Mode, opts Options) (Store, error) {
	switch mode {
	case config.ModeLocal:
		return NewLocalStore(opts.Storage), nil
	case config.ModeRemote:
		return NewRemoteStore(opts.BaseURL, opts.Token, opts.HTTPClient), nil
	case config.ModeSupabase:
		return NewPostgresStore(opts.Clients, opts.Table), nil
	default:
		return nil, ErrUnknownMode
	}
}
