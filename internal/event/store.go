package event

import (
	"context"
	"net/http"

	"backend-getyourextreme/internal/config"
	"backend-getyourextreme/internal/db"
	"backend-getyourextreme/internal/kv"
)

type Store interface {
	List(ctx context.Context) ([]EventScheduleItem, error)
	Get(ctx context.Context, id string) (EventScheduleItem, error)
	Create(ctx context.Context, input CreateInput) (EventScheduleItem, error)
	Update(ctx context.Context, id string, input CreateInput) (EventScheduleItem, error)
	Delete(ctx context.Context, id string) error
	// Reserve books seats only when enough remain.
	Reserve(ctx context.Context, id string, seats int) (EventScheduleItem, error)
	Release(ctx context.Context, id string, seats int) error
}

type Options struct {
	Storage    kv.Storage
	Clients    *db.Clients
	Table      string
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

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

func findByID(items []EventScheduleItem, id string) (int, bool) {
	for i, item := range items {
		if item.ID == id {
			return i, true
		}
	}
	return -1, false
}
