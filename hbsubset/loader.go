package hbsubset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultAssetLocation is where the subset module is expected if nothing else
// is configured.
const DefaultAssetLocation = "vendors/hb-subset.wasm"

// AssetLocationEnv names the environment variable which overrides
// DefaultAssetLocation. It may hold a file path or an http(s) URL.
const AssetLocationEnv = "HB_SUBSET_WASM"

// Loader fetches the binary of the subset module.
type Loader interface {
	Load(ctx context.Context) ([]byte, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]byte, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// FileLoader reads the module from a local file.
func FileLoader(path string) Loader {
	return LoaderFunc(func(ctx context.Context) ([]byte, error) {
		tracer().Debugf("loading subset module from file %s", path)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read subset module: %w", err)
		}
		return b, nil
	})
}

// URLLoader fetches the module with an HTTP GET. If client is nil,
// http.DefaultClient is used.
func URLLoader(url string, client *http.Client) Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return LoaderFunc(func(ctx context.Context) ([]byte, error) {
		tracer().Debugf("fetching subset module from %s", url)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch subset module: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch subset module: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("cannot fetch subset module: %s returned %s", url, resp.Status)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("cannot read subset module from %s: %w", url, err)
		}
		return b, nil
	})
}

// LocationLoader returns a URLLoader for http and https locations and a
// FileLoader for everything else.
func LocationLoader(location string) Loader {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return URLLoader(location, nil)
	}
	return FileLoader(location)
}

// RetryLoader retries the fetch step of loader up to attempts times in
// total, pausing between attempts. Only fetching is retried; a module which
// fails to instantiate is not fetched again.
func RetryLoader(loader Loader, attempts int, pause time.Duration) Loader {
	if attempts < 1 {
		attempts = 1
	}
	return LoaderFunc(func(ctx context.Context) ([]byte, error) {
		var err error
		for i := 0; i < attempts; i++ {
			if i > 0 {
				tracer().Infof("retrying to load subset module (%d/%d): %v", i+1, attempts, err)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(pause):
				}
			}
			var b []byte
			if b, err = loader.Load(ctx); err == nil {
				return b, nil
			}
		}
		return nil, err
	})
}

// EnvironmentLoader locates the module via AssetLocationEnv, falling back
// to DefaultAssetLocation.
func EnvironmentLoader() Loader {
	location := os.Getenv(AssetLocationEnv)
	if location == "" {
		location = DefaultAssetLocation
	}
	return LocationLoader(location)
}
