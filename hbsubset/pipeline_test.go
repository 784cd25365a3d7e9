package hbsubset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fontsubset/unirange"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var someFont = []byte("\x00\x01\x00\x00 pretend this is a TrueType font")

func TestSubsetSuccessReleasesEverything(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.hb")
	defer teardown()

	hb := newFakeNatives(t)
	engine := NewEngineWithNatives(hb)
	cps := unirange.Build([]string{"latin", "currency"})
	out, err := engine.Subset(context.Background(), someFont, cps)
	require.NoError(t, err)
	assert.Equal(t, "subset:144", string(out), "result must be copied before release")
	assert.Equal(t, 0, hb.liveCount(), "live native handles after success")
	assert.Equal(t, hb.acquired, hb.freed, "every acquisition needs one release")
	want := []string{"blob", "input", "blob", "face", "face", "buffer"}
	if diff := cmp.Diff(want, hb.released); diff != "" {
		t.Errorf("release order mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, hb.added, 144)
}

func TestSubsetCopiesFontIntoBoundary(t *testing.T) {
	hb := newFakeNatives(t)
	var seen []byte
	spy := &writeSpy{fakeNatives: hb, seen: &seen}
	engine := NewEngineWithNatives(spy)
	_, err := engine.Subset(context.Background(), someFont, unirange.NewSet('a'))
	require.NoError(t, err)
	assert.Equal(t, someFont, seen)
}

type writeSpy struct {
	*fakeNatives
	seen *[]byte
}

func (w *writeSpy) Write(p Ptr, data []byte) bool {
	*w.seen = append([]byte(nil), data...)
	return w.fakeNatives.Write(p, data)
}

func TestSubsetEmptySelection(t *testing.T) {
	hb := newFakeNatives(t)
	loader := &mockLoader{}
	engine := NewEngine(Config{
		Loader: loader,
		Open: func(ctx context.Context, wasm []byte) (Natives, error) {
			return hb, nil
		},
	})
	for _, keys := range [][]string{nil, {"nonexistent-key"}} {
		_, err := engine.SubsetRanges(context.Background(), someFont, keys)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptySelection)
	}
	loader.AssertNotCalled(t, "Load", mock.Anything)
	assert.Zero(t, hb.acquired, "boundary must not be touched")
}

func TestSubsetAllocationFailure(t *testing.T) {
	hb := newFakeNatives(t)
	hb.failMalloc = true
	_, err := NewEngineWithNatives(hb).Subset(context.Background(), someFont, unirange.NewSet('x'))
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, 0, hb.liveCount())
}

func TestSubsetInputCreationFailure(t *testing.T) {
	hb := newFakeNatives(t)
	hb.failInput = true
	_, err := NewEngineWithNatives(hb).Subset(context.Background(), someFont, unirange.NewSet('x'))
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, 0, hb.liveCount())
	if diff := cmp.Diff([]string{"blob", "face", "buffer"}, hb.released); diff != "" {
		t.Errorf("release order mismatch (-want +got):\n%s", diff)
	}
}

func TestSubsetNullFace(t *testing.T) {
	hb := newFakeNatives(t)
	hb.nullSubset = true
	out, err := NewEngineWithNatives(hb).Subset(context.Background(), someFont, unirange.NewSet('x', 'y'))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrSubsetting)
	assert.NotErrorIs(t, err, ErrEmptyResult)
	var serr *SubsetError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "hb_subset_or_fail", serr.Op)
	assert.Equal(t, 0, hb.liveCount(), "live native handles after subsetting failure")
	if diff := cmp.Diff([]string{"blob", "input", "face", "buffer"}, hb.released); diff != "" {
		t.Errorf("release order mismatch (-want +got):\n%s", diff)
	}
}

func TestSubsetEmptyResult(t *testing.T) {
	hb := newFakeNatives(t)
	hb.emptyResult = true
	out, err := NewEngineWithNatives(hb).Subset(context.Background(), someFont, unirange.NewSet('x'))
	assert.Nil(t, out, "zero-length result must not count as success")
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, 0, hb.liveCount())
	if diff := cmp.Diff([]string{"blob", "input", "blob", "face", "face", "buffer"}, hb.released); diff != "" {
		t.Errorf("release order mismatch (-want +got):\n%s", diff)
	}
}

func TestSubsetTrapUnwinds(t *testing.T) {
	hb := newFakeNatives(t)
	hb.trapSetAdd = true
	_, err := NewEngineWithNatives(hb).Subset(context.Background(), someFont, unirange.NewSet('x'))
	assert.ErrorIs(t, err, ErrSubsetting)
	assert.ErrorIs(t, err, errTrap)
	assert.Equal(t, 0, hb.liveCount())
}

func TestSubsetReleaseFailureIsReported(t *testing.T) {
	hb := newFakeNatives(t)
	hb.trapRelease = "input"
	out, err := NewEngineWithNatives(hb).Subset(context.Background(), someFont, unirange.NewSet('x'))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrSubsetting)
	var serr *SubsetError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "release", serr.Op)
}

func TestSubsetEmptyFontBuffer(t *testing.T) {
	hb := newFakeNatives(t)
	_, err := NewEngineWithNatives(hb).Subset(context.Background(), nil, unirange.NewSet('x'))
	assert.ErrorIs(t, err, ErrSubsetting)
	assert.Zero(t, hb.acquired)
}

func TestSubsetRepeatedRequestsDoNotLeak(t *testing.T) {
	hb := newFakeNatives(t)
	engine := NewEngineWithNatives(hb)
	for _, keys := range [][]string{{"latin"}, {"latin", "latin-1-supp"}, {"currency"}} {
		_, err := engine.SubsetRanges(context.Background(), someFont, keys)
		require.NoError(t, err)
		assert.Equal(t, 0, hb.liveCount(), "selection %v", keys)
	}
}

func TestSubsetSerializesRequests(t *testing.T) {
	hb := newFakeNatives(t)
	hb.pause = 5 * time.Millisecond
	engine := NewEngineWithNatives(hb)
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Subset(context.Background(), someFont, unirange.NewSet('a', 'b'))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, hb.maxInflight, "pipelines must not interleave")
	assert.Equal(t, 0, hb.liveCount())
}

func TestSubsetWaitHonoursContext(t *testing.T) {
	hb := newFakeNatives(t)
	hb.block = make(chan struct{})
	engine := NewEngineWithNatives(hb)
	first := make(chan error, 1)
	go func() {
		_, err := engine.Subset(context.Background(), someFont, unirange.NewSet('a'))
		first <- err
	}()
	// wait for the first request to occupy the boundary
	require.Eventually(t, func() bool { return hb.liveCount() > 0 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := engine.Subset(ctx, someFont, unirange.NewSet('b'))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(hb.block)
	require.NoError(t, <-first)
	assert.Equal(t, 0, hb.liveCount())
}

func TestCodePoints(t *testing.T) {
	cps, err := CodePoints([]string{"latin"})
	require.NoError(t, err)
	assert.Equal(t, 96, cps.Len())
	_, err = CodePoints([]string{"nope"})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestMessagesAreDistinct(t *testing.T) {
	kinds := []error{ErrEmptySelection, ErrAllocation, ErrSubsetting, ErrEmptyResult, ErrBoundaryInit}
	seen := map[string]bool{}
	for _, k := range kinds {
		msg := Message(fail(k, "op", nil))
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
	assert.Equal(t, "", Message(nil))
}
