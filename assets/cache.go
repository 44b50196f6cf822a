package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/lines"
)

var (
	// ErrAlreadyInitialized is returned by New when the process-wide cache
	// already exists.
	ErrAlreadyInitialized = errors.New("assets: cache is already initialized")

	// ErrNilContext is returned when constructing the cache without a context.
	ErrNilContext = errors.New("assets: context is nil")

	// ErrNilLoader is returned when constructing the cache without a loader.
	ErrNilLoader = errors.New("assets: loader is nil")
)

var (
	// instanceMu serializes construction; instance is read without it.
	instanceMu sync.Mutex
	instance   atomic.Pointer[Cache]
)

// Cache maps asset names to loaded models. It is filled once by a walk of
// the asset root and read-only afterwards.
type Cache struct {
	ctx     lines.Context
	root    string
	models  map[string]*Model
	elapsed time.Duration
}

// GetOrInit returns the process-wide cache, constructing it and walking
// the asset root on the first call. Later calls return the same instance
// and ignore their arguments. A failed construction leaves the cache
// uninitialized so the call can be retried.
func GetOrInit(ctx lines.Context, loader Loader, opts ...Option) (*Cache, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if c := instance.Load(); c != nil {
		return c, nil
	}
	return newLocked(ctx, loader, opts)
}

// MustGetOrInit is like GetOrInit but panics on error. It is meant for
// program initialization in main.
func MustGetOrInit(ctx lines.Context, loader Loader, opts ...Option) *Cache {
	c, err := GetOrInit(ctx, loader, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Existing returns the process-wide cache, or nil before initialization.
// It never constructs and never waits on a walk in progress.
func Existing() *Cache {
	return instance.Load()
}

// New constructs the process-wide cache directly. It fails with
// ErrAlreadyInitialized when the cache exists.
func New(ctx lines.Context, loader Loader, opts ...Option) (*Cache, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance.Load() != nil {
		return nil, ErrAlreadyInitialized
	}
	return newLocked(ctx, loader, opts)
}

func newLocked(ctx lines.Context, loader Loader, opts []Option) (*Cache, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if loader == nil {
		return nil, ErrNilLoader
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		ctx:    ctx,
		root:   filepath.Clean(o.root),
		models: make(map[string]*Model),
	}
	start := time.Now()
	if err := c.populate(loader, o); err != nil {
		c.release()
		return nil, err
	}
	c.elapsed = time.Since(start)

	lines.Logger().Info("asset cache populated",
		"root", c.root,
		"models", len(c.models),
		"elapsed", c.elapsed)

	instance.Store(c)
	return c, nil
}

// release destroys every loaded model. Used when a walk fails so a retry
// starts without leaked GPU resources.
func (c *Cache) release() {
	for name, m := range c.models {
		m.Destroy()
		delete(c.models, name)
	}
}

// Get returns the model stored under name.
func (c *Cache) Get(name string) (*Model, bool) {
	m, ok := c.models[name]
	return m, ok
}

// Names returns the asset names in sorted order.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.models))
	for name := range c.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cached models.
func (c *Cache) Len() int { return len(c.models) }

// Root returns the walked directory.
func (c *Cache) Root() string { return c.root }

// Context returns the context the cache was built with.
func (c *Cache) Context() lines.Context { return c.ctx }

// Elapsed returns how long the walk took.
func (c *Cache) Elapsed() time.Duration { return c.elapsed }

// String describes the cache for logs.
func (c *Cache) String() string {
	return fmt.Sprintf("assets.Cache{root: %q, models: %d}", c.root, len(c.models))
}
