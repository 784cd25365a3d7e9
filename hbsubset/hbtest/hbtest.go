/*
Package hbtest provides an in-memory stand-in for the HarfBuzz execution
boundary, for tests of clients of package hbsubset.

The stand-in does not parse fonts. A subset's binary is the text
"subset of <n> code points", with n the number of code points added to the
subset input. Live native handles are counted, so that tests can check
nothing leaks past a request.
*/
package hbtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/npillmayer/fontsubset/hbsubset"
)

// Natives implements hbsubset.Natives in memory.
type Natives struct {
	// RejectFont makes every subsetting operation fail with a null face.
	RejectFont bool
	// Subsets counts successful subsetting operations.
	Subsets int

	mu     sync.Mutex
	mem    map[hbsubset.Ptr][]byte
	next   hbsubset.Ptr
	live   map[hbsubset.Ptr]bool
	data   map[hbsubset.Ptr]hbsubset.Ptr // blob or face -> memory
	counts map[hbsubset.Ptr]int          // set -> number of code points
	sets   map[hbsubset.Ptr]hbsubset.Ptr // input -> set
	closed bool
}

var _ hbsubset.Natives = (*Natives)(nil)

// New creates a stand-in boundary.
func New() *Natives {
	return &Natives{
		mem:    map[hbsubset.Ptr][]byte{},
		next:   0x1000,
		live:   map[hbsubset.Ptr]bool{},
		data:   map[hbsubset.Ptr]hbsubset.Ptr{},
		counts: map[hbsubset.Ptr]int{},
		sets:   map[hbsubset.Ptr]hbsubset.Ptr{},
	}
}

// Engine creates an Engine running on a new stand-in boundary.
func Engine() (*hbsubset.Engine, *Natives) {
	n := New()
	return hbsubset.NewEngineWithNatives(n), n
}

// Live is the number of native objects not yet released.
func (n *Natives) Live() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.live)
}

// Closed reports whether Close has been called.
func (n *Natives) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

func (n *Natives) handle() hbsubset.Ptr {
	n.next += 0x10
	n.live[n.next] = true
	return n.next
}

func (n *Natives) drop(p hbsubset.Ptr) error {
	if !n.live[p] {
		return fmt.Errorf("release of unknown handle %#x", p)
	}
	delete(n.live, p)
	return nil
}

func (n *Natives) Malloc(ctx context.Context, size uint32) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.handle()
	n.mem[p] = make([]byte, size)
	return p, nil
}

func (n *Natives) Free(ctx context.Context, p hbsubset.Ptr) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.mem, p)
	return n.drop(p)
}

func (n *Natives) Write(p hbsubset.Ptr, data []byte) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	m, ok := n.mem[p]
	if !ok || len(m) < len(data) {
		return false
	}
	copy(m, data)
	return true
}

func (n *Natives) Read(p hbsubset.Ptr, size uint32) ([]byte, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	m, ok := n.mem[p]
	if !ok || uint32(len(m)) < size {
		return nil, false
	}
	return m[:size], true
}

func (n *Natives) BlobCreate(ctx context.Context, data hbsubset.Ptr, length uint32,
	mode hbsubset.MemoryMode, userData, destroy hbsubset.Ptr) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b := n.handle()
	n.data[b] = data
	return b, nil
}

func (n *Natives) BlobDestroy(ctx context.Context, blob hbsubset.Ptr) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.data, blob)
	return n.drop(blob)
}

func (n *Natives) BlobGetData(ctx context.Context, blob, lengthOut hbsubset.Ptr) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.data[blob], nil
}

func (n *Natives) BlobGetLength(ctx context.Context, blob hbsubset.Ptr) (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return uint32(len(n.mem[n.data[blob]])), nil
}

func (n *Natives) FaceCreate(ctx context.Context, blob hbsubset.Ptr, index uint32) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.handle(), nil
}

func (n *Natives) FaceDestroy(ctx context.Context, face hbsubset.Ptr) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if m, ok := n.data[face]; ok {
		delete(n.mem, m)
		delete(n.data, face)
	}
	return n.drop(face)
}

func (n *Natives) FaceReferenceBlob(ctx context.Context, face hbsubset.Ptr) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	b := n.handle()
	n.data[b] = n.data[face]
	return b, nil
}

func (n *Natives) SubsetInputCreateOrFail(ctx context.Context) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	input := n.handle()
	n.next += 0x10
	n.sets[input] = n.next
	return input, nil
}

func (n *Natives) SubsetInputUnicodeSet(ctx context.Context, input hbsubset.Ptr) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sets[input], nil
}

func (n *Natives) SubsetInputDestroy(ctx context.Context, input hbsubset.Ptr) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.sets, input)
	return n.drop(input)
}

func (n *Natives) SetAdd(ctx context.Context, set hbsubset.Ptr, cp uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.counts[set]++
	return nil
}

func (n *Natives) SubsetOrFail(ctx context.Context, face, input hbsubset.Ptr) (hbsubset.Ptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	set := n.sets[input]
	count := n.counts[set]
	delete(n.counts, set)
	if n.RejectFont {
		return 0, nil
	}
	sub := n.handle()
	m := n.next + 0x08 // memory owned by the subset face, not a tracked handle
	n.mem[m] = []byte(fmt.Sprintf("subset of %d code points", count))
	n.data[sub] = m
	n.Subsets++
	return sub, nil
}

func (n *Natives) Close(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}
