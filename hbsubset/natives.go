package hbsubset

import "context"

// Ptr is an address in the linear memory of the execution boundary. Native
// objects (blobs, faces, sets, subset inputs) are referenced by their Ptr.
// The zero Ptr is HarfBuzz's null object.
type Ptr uint32

// MemoryMode tells hb_blob_create how to treat the memory it wraps.
type MemoryMode uint32

// Values of hb_memory_mode_t.
const (
	MemoryModeDuplicate MemoryMode = iota
	MemoryModeReadonly
	MemoryModeWritable
	MemoryModeReadonlyMayMakeWritable
)

// Natives is the function table of the execution boundary. It mirrors the
// exports of hb-subset.wasm used by the subsetting pipeline; no other entry
// points are needed.
//
// Methods returning an error signal a failure of the boundary itself (a
// trap, a missing export). Native failure sentinels, like a null Ptr
// returned by SubsetOrFail, are not errors at this level.
type Natives interface {
	// Malloc allocates size bytes of boundary memory.
	Malloc(ctx context.Context, size uint32) (Ptr, error)
	// Free releases memory obtained from Malloc.
	Free(ctx context.Context, p Ptr) error
	// Write copies data into boundary memory at p.
	Write(p Ptr, data []byte) bool
	// Read returns a view of n bytes of boundary memory at p. The view is
	// only valid until the next call into the boundary.
	Read(p Ptr, n uint32) ([]byte, bool)

	BlobCreate(ctx context.Context, data Ptr, length uint32, mode MemoryMode, userData, destroy Ptr) (Ptr, error)
	BlobDestroy(ctx context.Context, blob Ptr) error
	BlobGetData(ctx context.Context, blob Ptr, lengthOut Ptr) (Ptr, error)
	BlobGetLength(ctx context.Context, blob Ptr) (uint32, error)

	FaceCreate(ctx context.Context, blob Ptr, index uint32) (Ptr, error)
	FaceDestroy(ctx context.Context, face Ptr) error
	FaceReferenceBlob(ctx context.Context, face Ptr) (Ptr, error)

	SubsetInputCreateOrFail(ctx context.Context) (Ptr, error)
	SubsetInputUnicodeSet(ctx context.Context, input Ptr) (Ptr, error)
	SubsetInputDestroy(ctx context.Context, input Ptr) error
	SetAdd(ctx context.Context, set Ptr, cp uint32) error
	SubsetOrFail(ctx context.Context, face Ptr, input Ptr) (Ptr, error)

	// Close tears down the boundary. All Ptrs become invalid.
	Close(ctx context.Context) error
}
