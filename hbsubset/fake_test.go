package hbsubset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeNatives is an instrumented boundary. It tracks every live native
// object, flags double releases and use after release, and zeroes memory
// on release so that reads of released memory are detectable.
type fakeNatives struct {
	t  *testing.T
	mu sync.Mutex

	mem      []byte
	brk      Ptr
	nextObj  Ptr
	live     map[Ptr]string // handle -> kind
	regions  map[Ptr]uint32 // malloc'ed regions
	blobs    map[Ptr]region // blob -> data
	faces    map[Ptr]Ptr    // face -> blob it references
	sets     map[Ptr]Ptr    // input -> its unicode set
	added    []uint32
	released []string // kinds in order of release
	acquired int
	freed    int

	inflight, maxInflight int
	closed                bool

	// knobs
	failMalloc  bool
	failInput   bool
	nullSubset  bool
	emptyResult bool
	trapSetAdd  bool
	trapRelease string // kind whose release traps
	block       chan struct{}
	pause       time.Duration
}

type region struct {
	ptr Ptr
	n   uint32
}

var errTrap = errors.New("wasm trap")

func newFakeNatives(t *testing.T) *fakeNatives {
	return &fakeNatives{
		t:       t,
		mem:     make([]byte, 1<<20),
		brk:     16,
		nextObj: 0x7000_0000,
		live:    map[Ptr]string{},
		regions: map[Ptr]uint32{},
		blobs:   map[Ptr]region{},
		faces:   map[Ptr]Ptr{},
		sets:    map[Ptr]Ptr{},
	}
}

func (f *fakeNatives) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeNatives) acquire(kind string) Ptr {
	f.nextObj += 16
	f.live[f.nextObj] = kind
	f.acquired++
	return f.nextObj
}

func (f *fakeNatives) check(h Ptr, kind string) {
	if k, ok := f.live[h]; !ok || k != kind {
		f.t.Errorf("use of %s handle %#x which is not live (live kind %q)", kind, h, k)
	}
}

func (f *fakeNatives) drop(h Ptr, kind string) error {
	if k, ok := f.live[h]; !ok || k != kind {
		f.t.Errorf("release of %s handle %#x which is not live", kind, h)
		return nil
	}
	if f.trapRelease == kind {
		return errTrap
	}
	delete(f.live, h)
	f.freed++
	f.released = append(f.released, kind)
	return nil
}

func (f *fakeNatives) malloc(size uint32) Ptr {
	if int(f.brk)+int(size) > len(f.mem) {
		return 0
	}
	p := f.brk
	f.brk += Ptr(size+15) &^ 15
	f.regions[p] = size
	f.live[p] = "buffer"
	f.acquired++
	return p
}

func (f *fakeNatives) Malloc(ctx context.Context, size uint32) (Ptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	if f.failMalloc {
		f.inflight--
		return 0, nil
	}
	return f.malloc(size), nil
}

func (f *fakeNatives) Free(ctx context.Context, p Ptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.drop(p, "buffer"); err != nil {
		return err
	}
	clear(f.mem[p : p+Ptr(f.regions[p])])
	delete(f.regions, p)
	f.inflight--
	return nil
}

func (f *fakeNatives) Write(p Ptr, data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(p)+len(data) > len(f.mem) {
		return false
	}
	copy(f.mem[p:], data)
	return true
}

func (f *fakeNatives) Read(p Ptr, n uint32) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(p)+int(n) > len(f.mem) {
		return nil, false
	}
	return f.mem[p : p+Ptr(n)], true
}

func (f *fakeNatives) BlobCreate(ctx context.Context, data Ptr, length uint32, mode MemoryMode,
	userData, destroy Ptr) (Ptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(data, "buffer")
	if mode != MemoryModeWritable {
		f.t.Errorf("expected writable blob memory mode, got %d", mode)
	}
	b := f.acquire("blob")
	f.blobs[b] = region{ptr: data, n: length}
	return b, nil
}

func (f *fakeNatives) BlobDestroy(ctx context.Context, blob Ptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.drop(blob, "blob"); err != nil {
		return err
	}
	delete(f.blobs, blob)
	return nil
}

func (f *fakeNatives) BlobGetData(ctx context.Context, blob Ptr, lengthOut Ptr) (Ptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(blob, "blob")
	return f.blobs[blob].ptr, nil
}

func (f *fakeNatives) BlobGetLength(ctx context.Context, blob Ptr) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(blob, "blob")
	return f.blobs[blob].n, nil
}

func (f *fakeNatives) FaceCreate(ctx context.Context, blob Ptr, index uint32) (Ptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(blob, "blob")
	face := f.acquire("face")
	f.faces[face] = 0
	return face, nil
}

func (f *fakeNatives) FaceDestroy(ctx context.Context, face Ptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.drop(face, "face"); err != nil {
		return err
	}
	if b := f.faces[face]; b != 0 {
		// the subset face owns the memory of its binary
		clear(f.mem[b : b+Ptr(f.regions[b])])
		delete(f.regions, b)
	}
	delete(f.faces, face)
	return nil
}

func (f *fakeNatives) FaceReferenceBlob(ctx context.Context, face Ptr) (Ptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(face, "face")
	b := f.acquire("blob")
	data := f.faces[face]
	f.blobs[b] = region{ptr: data, n: f.regions[data]}
	return b, nil
}

func (f *fakeNatives) SubsetInputCreateOrFail(ctx context.Context) (Ptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInput {
		return 0, nil
	}
	input := f.acquire("input")
	f.nextObj += 16
	f.sets[input] = f.nextObj
	return input, nil
}

func (f *fakeNatives) SubsetInputUnicodeSet(ctx context.Context, input Ptr) (Ptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(input, "input")
	return f.sets[input], nil
}

func (f *fakeNatives) SubsetInputDestroy(ctx context.Context, input Ptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.drop(input, "input"); err != nil {
		return err
	}
	delete(f.sets, input)
	return nil
}

func (f *fakeNatives) SetAdd(ctx context.Context, set Ptr, cp uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.trapSetAdd {
		return errTrap
	}
	f.added = append(f.added, cp)
	return nil
}

func (f *fakeNatives) SubsetOrFail(ctx context.Context, face Ptr, input Ptr) (Ptr, error) {
	if f.block != nil {
		<-f.block
	}
	if f.pause > 0 {
		time.Sleep(f.pause)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(face, "face")
	f.check(input, "input")
	if f.nullSubset {
		return 0, nil
	}
	sub := f.acquire("face")
	var binary []byte
	if !f.emptyResult {
		binary = []byte(fmt.Sprintf("subset:%d", len(f.added)))
	}
	p := f.brk
	f.brk += Ptr(len(binary)+15) &^ 15
	copy(f.mem[p:], binary)
	f.regions[p] = uint32(len(binary))
	f.faces[sub] = p
	return sub, nil
}

func (f *fakeNatives) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
