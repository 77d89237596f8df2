package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	// ErrAssetFetch matches every pipeline fetch failure.
	ErrAssetFetch = errors.New("content: asset fetch failed")
	// ErrAlreadyRunning is returned when a load is started while another runs.
	ErrAlreadyRunning = errors.New("content: pipeline already running")
)

// Store is the resource store a pipeline fetches from. Loads may block.
type Store interface {
	LoadImage(key string) (*ebiten.Image, error)
	LoadFont(key string) (*text.GoTextFaceSource, error)
	LoadMusic(key string) (*audio.Player, error)
	LoadSound(key string) (*audio.Player, error)
	LoadLines(key string) ([]string, error)
}

// FetchFunc fetches the handle for one entry.
type FetchFunc func(ctx context.Context, e Entry) (any, error)

// StoreFetcher dispatches entries to the matching Store loader.
func StoreFetcher(s Store) FetchFunc {
	return func(_ context.Context, e Entry) (any, error) {
		switch e.Kind {
		case KindTexture:
			return s.LoadImage(e.Key)
		case KindFont:
			return s.LoadFont(e.Key)
		case KindMusic:
			return s.LoadMusic(e.Key)
		case KindSound:
			return s.LoadSound(e.Key)
		case KindLevelLines:
			return s.LoadLines(e.Key)
		}
		return nil, fmt.Errorf("content: no loader for %s", e.Kind)
	}
}

// FetchError reports the entry that stopped the pipeline.
type FetchError struct {
	// Index is the 0-based position of the failing entry in the manifest.
	Index int
	Entry Entry
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("content: fetch %d/%s: %v", e.Index, e.Entry, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{ErrAssetFetch, e.Err} }

// Progress is a point-in-time view of a pipeline.
type Progress struct {
	Counter    int
	Total      int
	BaseReady  bool
	FullyReady bool
}

// Pipeline fetches a manifest strictly in order, one entry at a time.
// Counter and readiness flags are safe to poll from any goroutine.
type Pipeline struct {
	fetch    FetchFunc
	manifest Manifest
	logger   *slog.Logger

	counter    atomic.Int64
	baseReady  atomic.Bool
	fullyReady atomic.Bool
	running    atomic.Bool

	mu      sync.Mutex
	err     error
	content *Content
	done    chan struct{}
}

func NewPipeline(fetch FetchFunc, manifest Manifest, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		fetch:    fetch,
		manifest: manifest,
		logger:   logger.With("component", "content"),
		done:     closedChan(),
	}
}

// Init starts loading on a new goroutine and returns immediately. Progress is
// observed by polling.
func (p *Pipeline) Init(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	c, done := p.reset()
	go func() {
		defer close(done)
		defer p.running.Store(false)
		_ = p.run(ctx, c)
	}()
	return nil
}

// Run loads synchronously and returns the terminal error, if any.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	c, done := p.reset()
	defer close(done)
	defer p.running.Store(false)
	return p.run(ctx, c)
}

// Done is closed when the current (or last) load finishes.
func (p *Pipeline) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Pipeline) reset() (*Content, chan struct{}) {
	c := NewContent(p.levelSlots())
	done := make(chan struct{})

	p.counter.Store(0)
	p.baseReady.Store(false)
	p.fullyReady.Store(false)

	p.mu.Lock()
	p.err = nil
	p.content = c
	p.done = done
	p.mu.Unlock()
	return c, done
}

func (p *Pipeline) run(ctx context.Context, c *Content) error {
	total := p.manifest.Len()
	p.logger.Info("loading started", "total", total)

	if p.manifest.Base <= 0 {
		p.baseReady.Store(true)
	}
	for i, e := range p.manifest.Entries {
		v, err := p.fetch(ctx, e)
		if err == nil {
			err = c.assign(e, v)
		}
		if err != nil {
			ferr := &FetchError{Index: i, Entry: e, Err: err}
			p.mu.Lock()
			p.err = ferr
			p.mu.Unlock()
			p.logger.Error("loading failed", "index", i, "key", e.Key, "err", err)
			return ferr
		}
		p.counter.Add(1)
		if i+1 == p.manifest.Base {
			p.baseReady.Store(true)
			p.logger.Debug("base content ready")
		}
	}
	p.fullyReady.Store(true)
	p.logger.Info("loading finished", "total", total)
	return nil
}

func (p *Pipeline) levelSlots() int {
	n := 0
	for _, e := range p.manifest.Entries {
		if e.Slot.Group == GroupLevel && e.Slot.Index+1 > n {
			n = e.Slot.Index + 1
		}
	}
	return n
}

func (p *Pipeline) Counter() int     { return int(p.counter.Load()) }
func (p *Pipeline) Total() int       { return p.manifest.Len() }
func (p *Pipeline) BaseReady() bool  { return p.baseReady.Load() }
func (p *Pipeline) FullyReady() bool { return p.fullyReady.Load() }

func (p *Pipeline) Progress() Progress {
	// FullyReady first so a true value implies the counter read is final.
	full := p.fullyReady.Load()
	return Progress{
		Counter:    int(p.counter.Load()),
		Total:      p.manifest.Len(),
		BaseReady:  p.baseReady.Load(),
		FullyReady: full,
	}
}

// Err returns the terminal fetch error of the last load, or nil.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Content returns the context object of the last load. Slots are only
// complete once FullyReady is true. The pixel and font slots may be read once
// BaseReady is true.
func (p *Pipeline) Content() *Content {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
