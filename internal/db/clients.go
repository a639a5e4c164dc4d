package db

import "errors"

// ErrNotConfigured is returned when a backend handle is requested but no
// database URL was configured.
var ErrNotConfigured = errors.New("backend is not configured: set POSTGRES_URL")

// Clients holds the two backend handles: a session-bound one and a
// session-free public one used for anonymous catalog reads.
type Clients struct {
	session Querier
	public  Querier
}

func NewClients(session, public Querier) *Clients {
	return &Clients{session: session, public: public}
}

func (c *Clients) Configured() bool {
	return c != nil && c.session != nil
}

func (c *Clients) Require() (Querier, error) {
	if c == nil || c.session == nil {
		return nil, ErrNotConfigured
	}
	return c.session, nil
}

func (c *Clients) RequirePublic() (Querier, error) {
	if c == nil || c.public == nil {
		return nil, ErrNotConfigured
	}
	return c.public, nil
}
