package hbsubset

import (
	"context"
	"errors"
	"sync"

	"github.com/npillmayer/fontsubset/unirange"
	"github.com/tetratelabs/wazero"
)

// Config configures an Engine.
type Config struct {
	// Loader fetches the module binary. If nil, EnvironmentLoader is used.
	Loader Loader
	// RuntimeConfig is handed to wazero. May be nil.
	RuntimeConfig wazero.RuntimeConfig
	// Open turns a module binary into a boundary. If nil, NewWasmNatives
	// is used.
	Open func(ctx context.Context, wasm []byte) (Natives, error)
}

// Engine owns one execution boundary and serializes all subsetting requests
// against it.
//
// The boundary is initialized on first use. Callers arriving while
// initialization is in flight wait for it to finish and share its outcome.
// A failed initialization is final for the Engine.
type Engine struct {
	config  Config
	gate    chan struct{} // holds a token while the boundary is in use
	natives Natives
	initErr error
	done    bool // initialization has been attempted
	closed  bool
}

// NewEngine creates an Engine. Nothing is loaded before the first request.
func NewEngine(config Config) *Engine {
	if config.Loader == nil {
		config.Loader = EnvironmentLoader()
	}
	if config.Open == nil {
		rc := config.RuntimeConfig
		config.Open = func(ctx context.Context, wasm []byte) (Natives, error) {
			n, err := NewWasmNatives(ctx, wasm, rc)
			if err != nil {
				return nil, err
			}
			return n, nil
		}
	}
	return &Engine{
		config: config,
		gate:   make(chan struct{}, 1),
	}
}

// NewEngineWithNatives creates an Engine around an already instantiated
// boundary.
func NewEngineWithNatives(natives Natives) *Engine {
	return &Engine{
		gate:    make(chan struct{}, 1),
		natives: natives,
		done:    true,
	}
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide Engine, configured from the environment
// (see AssetLocationEnv).
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine(Config{})
	})
	return defaultEngine
}

// acquire waits for exclusive use of the boundary. Waiting ends early if
// ctx is done.
func (e *Engine) acquire(ctx context.Context) error {
	select {
	case e.gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) release() {
	<-e.gate
}

// boundary returns the initialized boundary. The caller must hold the gate.
func (e *Engine) boundary(ctx context.Context) (Natives, error) {
	if e.closed {
		return nil, fail(ErrBoundaryInit, "", errEngineClosed)
	}
	if e.done {
		if e.initErr != nil {
			return nil, fail(ErrBoundaryInit, "", e.initErr)
		}
		return e.natives, nil
	}
	e.done = true
	// Initialization must not be cut short by a single caller.
	ctx = context.WithoutCancel(ctx)
	wasm, err := e.config.Loader.Load(ctx)
	if err == nil {
		e.natives, err = e.config.Open(ctx, wasm)
	}
	if err != nil {
		tracer().Errorf("cannot initialize subsetting boundary: %v", err)
		e.initErr = err
		e.natives = nil
		return nil, fail(ErrBoundaryInit, "", err)
	}
	tracer().Infof("subsetting boundary initialized (%d bytes of wasm)", len(wasm))
	return e.natives, nil
}

var errEngineClosed = errors.New("engine closed")

// Init initializes the boundary eagerly. Subset calls Init implicitly.
func (e *Engine) Init(ctx context.Context) error {
	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()
	_, err := e.boundary(ctx)
	return err
}

// Subset produces a subset of the font in original, keeping the glyphs
// reachable from code points cps. The returned bytes are owned by the
// caller.
//
// An empty cps fails with ErrEmptySelection without touching the boundary.
// Otherwise Subset waits for exclusive use of the boundary; if ctx ends
// while waiting, ctx.Err() is returned. Once started, the native sequence
// runs to completion regardless of ctx.
func (e *Engine) Subset(ctx context.Context, original []byte, cps unirange.Set) ([]byte, error) {
	if cps.IsEmpty() {
		return nil, fail(ErrEmptySelection, "", nil)
	}
	if err := e.acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release()
	hb, err := e.boundary(ctx)
	if err != nil {
		return nil, err
	}
	return runPipeline(context.WithoutCancel(ctx), hb, original, cps)
}

// SubsetRanges is a shortcut for Subset(ctx, original, unirange.Build(keys)).
func (e *Engine) SubsetRanges(ctx context.Context, original []byte, keys []string) ([]byte, error) {
	return e.Subset(ctx, original, unirange.Build(keys))
}

// Close tears down the boundary. Requests after Close fail with
// ErrBoundaryInit. Close waits for an in-flight request to finish.
func (e *Engine) Close(ctx context.Context) error {
	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.natives == nil {
		return nil
	}
	err := e.natives.Close(ctx)
	e.natives = nil
	return err
}

// CodePoints builds the code-point set for a selection of range keys. A
// selection which resolves to no code points at all fails with
// ErrEmptySelection.
func CodePoints(keys []string) (unirange.Set, error) {
	cps := unirange.Build(keys)
	if cps.IsEmpty() {
		return cps, fail(ErrEmptySelection, "", nil)
	}
	return cps, nil
}
