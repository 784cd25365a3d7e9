package hbsubset

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/npillmayer/fontsubset/unirange"
)

// pending is a native object awaiting release.
type pending struct {
	what    string
	handle  Ptr
	destroy func(context.Context, Ptr) error
}

// releaseStack tracks every native object of one pipeline run. Objects are
// released either explicitly, as soon as the pipeline is done with them, or
// when the stack is unwound, in reverse order of acquisition.
type releaseStack struct {
	ctx   context.Context
	items []pending
	errs  []error
}

func (s *releaseStack) push(what string, h Ptr, destroy func(context.Context, Ptr) error) {
	s.items = append(s.items, pending{what: what, handle: h, destroy: destroy})
}

// release destroys the object h right away.
func (s *releaseStack) release(h Ptr) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].handle == h {
			p := s.items[i]
			s.items = slices.Delete(s.items, i, i+1)
			s.destroy(p)
			return
		}
	}
	panic(fmt.Sprintf("hbsubset: release of untracked handle %#x", h))
}

func (s *releaseStack) destroy(p pending) {
	if err := p.destroy(s.ctx, p.handle); err != nil {
		tracer().Errorf("cannot release %s %#x: %v", p.what, p.handle, err)
		s.errs = append(s.errs, fmt.Errorf("release %s: %w", p.what, err))
		return
	}
	tracer().Debugf("released %s %#x", p.what, p.handle)
}

// unwind releases everything still pending, most recent first, and reports
// release failures.
func (s *releaseStack) unwind() error {
	for i := len(s.items) - 1; i >= 0; i-- {
		s.destroy(s.items[i])
	}
	s.items = s.items[:0]
	return errors.Join(s.errs...)
}

// runPipeline performs one subsetting run against boundary hb. The caller
// must have exclusive use of hb. Every native object created here has been
// released when runPipeline returns.
func runPipeline(ctx context.Context, hb Natives, original []byte, cps unirange.Set) (result []byte, err error) {
	if len(original) == 0 {
		return nil, fail(ErrSubsetting, "input", errors.New("font buffer is empty"))
	}
	stack := &releaseStack{ctx: ctx}
	defer func() {
		if rerr := stack.unwind(); rerr != nil && err == nil {
			result, err = nil, fail(ErrSubsetting, "release", rerr)
		}
	}()

	// copy the font into boundary memory
	size := uint32(len(original))
	fontPtr, err := hb.Malloc(ctx, size)
	if err != nil {
		return nil, fail(ErrAllocation, "malloc", err)
	}
	if fontPtr == 0 {
		return nil, fail(ErrAllocation, "malloc", fmt.Errorf("cannot allocate %d bytes", size))
	}
	stack.push("font buffer", fontPtr, hb.Free)
	if !hb.Write(fontPtr, original) {
		return nil, fail(ErrAllocation, "write", fmt.Errorf("%d bytes at %#x out of memory range", size, fontPtr))
	}

	// wrap it as a face; the face keeps its own reference to the blob
	blob, err := hb.BlobCreate(ctx, fontPtr, size, MemoryModeWritable, 0, 0)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_blob_create", err)
	}
	if blob == 0 {
		return nil, fail(ErrAllocation, "hb_blob_create", nil)
	}
	stack.push("blob", blob, hb.BlobDestroy)
	face, err := hb.FaceCreate(ctx, blob, 0)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_face_create", err)
	}
	if face == 0 {
		return nil, fail(ErrAllocation, "hb_face_create", nil)
	}
	stack.push("face", face, hb.FaceDestroy)
	stack.release(blob)

	// subset input with the requested code points
	input, err := hb.SubsetInputCreateOrFail(ctx)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_subset_input_create_or_fail", err)
	}
	if input == 0 {
		return nil, fail(ErrAllocation, "hb_subset_input_create_or_fail", nil)
	}
	stack.push("subset input", input, hb.SubsetInputDestroy)
	unicodes, err := hb.SubsetInputUnicodeSet(ctx, input)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_subset_input_unicode_set", err)
	}
	for _, cp := range cps.Sorted() {
		if err = hb.SetAdd(ctx, unicodes, uint32(cp)); err != nil {
			return nil, fail(ErrSubsetting, "hb_set_add", err)
		}
	}
	tracer().Debugf("subsetting %d bytes of font for %d code points", size, cps.Len())

	subsetFace, err := hb.SubsetOrFail(ctx, face, input)
	stack.release(input)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_subset_or_fail", err)
	}
	if subsetFace == 0 {
		return nil, fail(ErrSubsetting, "hb_subset_or_fail", errors.New("returned null face"))
	}
	stack.push("subset face", subsetFace, hb.FaceDestroy)

	// extract the binary of the subset face
	resultBlob, err := hb.FaceReferenceBlob(ctx, subsetFace)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_face_reference_blob", err)
	}
	if resultBlob == 0 {
		return nil, fail(ErrEmptyResult, "hb_face_reference_blob", nil)
	}
	stack.push("result blob", resultBlob, hb.BlobDestroy)
	data, err := hb.BlobGetData(ctx, resultBlob, 0)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_blob_get_data", err)
	}
	length, err := hb.BlobGetLength(ctx, resultBlob)
	if err != nil {
		return nil, fail(ErrSubsetting, "hb_blob_get_length", err)
	}
	if length == 0 {
		return nil, fail(ErrEmptyResult, "hb_blob_get_length", nil)
	}
	view, ok := hb.Read(data, length)
	if !ok {
		return nil, fail(ErrSubsetting, "read", fmt.Errorf("%d bytes at %#x out of memory range", length, data))
	}
	// the view dies with the result blob
	result = slices.Clone(view)
	tracer().Infof("subset font has %d bytes (original %d)", len(result), size)
	return result, nil
}
