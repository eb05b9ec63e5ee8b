package mongofake

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/ti/mongofake/log"
)

// Scheme the uri scheme accepted by New.
const Scheme = "mongofake"

// Client is a fake mongo client owning a single database.
type Client struct {
	db *Database
}

// Database is a fake database owning a single collection.
type Database struct {
	name       string
	collection *Collection
}

// NewClient creates a client with an empty collection. It panics only when the metrics can
// not be registered, use NewClientE to get that error instead.
func NewClient(opts ...Option) *Client {
	c, err := NewClientE(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewClientE creates a client with an empty collection.
func NewClientE(opts ...Option) (*Client, error) {
	o := evaluateOptions(opts)
	m, err := newMetrics(o.registerer)
	if err != nil {
		return nil, err
	}
	return &Client{
		db: &Database{
			name:       o.database,
			collection: newCollection(o.database, o.logger, m),
		},
	}, nil
}

// New creates a client from a uri such as mongofake://local/testdb. The path names the database.
func New(_ context.Context, uri string, opts ...Option) (*Client, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, NewInvalidArgumentError("uri", err.Error())
	}
	if u.Scheme != Scheme {
		return nil, NewInvalidArgumentError("uri", "scheme must be "+Scheme+", got "+u.Scheme)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return nil, NewInvalidArgumentError("uri_path", "database name not specified in "+Scheme+" uri")
	}
	return NewClientE(append(opts, WithDatabaseName(name))...)
}

// Connect returns the client's database, the same one on every call.
func (c *Client) Connect(_ context.Context) (*Database, error) {
	return c.db, nil
}

// Database returns the client's database without connecting.
func (c *Client) Database() *Database {
	return c.db
}

// Name the database name.
func (d *Database) Name() string {
	return d.name
}

// Collection returns the database's only collection, the same one on every call.
func (d *Database) Collection() *Collection {
	return d.collection
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
	defaultOpts   []Option
)

// SetDefaultOptions sets the options used for the default client from the next Reset on.
func SetDefaultOptions(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOpts = opts
}

// Default returns the process wide client, creating it on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = newDefaultClient()
	}
	return defaultClient
}

// Reset replaces the process wide client with a new empty one and returns it. Handles taken
// from the previous client keep their old state. Call it between tests, state is never reset
// automatically.
func Reset() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = newDefaultClient()
	return defaultClient
}

// newDefaultClient drops the metrics when they can not be registered, callers hold defaultMu.
func newDefaultClient() *Client {
	c, err := NewClientE(defaultOpts...)
	if err == nil {
		return c
	}
	log.Action("mongofake.reset").Warn("metrics disabled for the default client: %s", err)
	return NewClient(append(defaultOpts[:len(defaultOpts):len(defaultOpts)], WithRegisterer(nil))...)
}
