package hbsubset

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Indices into the export table of hb-subset.wasm.
const (
	exMalloc = iota
	exFree
	exBlobCreate
	exBlobDestroy
	exBlobGetData
	exBlobGetLength
	exFaceCreate
	exFaceDestroy
	exFaceReferenceBlob
	exSubsetInputCreateOrFail
	exSubsetInputUnicodeSet
	exSubsetInputDestroy
	exSetAdd
	exSubsetOrFail
	exCount
)

var exportNames = [exCount]string{
	exMalloc:                  "malloc",
	exFree:                    "free",
	exBlobCreate:              "hb_blob_create",
	exBlobDestroy:             "hb_blob_destroy",
	exBlobGetData:             "hb_blob_get_data",
	exBlobGetLength:           "hb_blob_get_length",
	exFaceCreate:              "hb_face_create",
	exFaceDestroy:             "hb_face_destroy",
	exFaceReferenceBlob:       "hb_face_reference_blob",
	exSubsetInputCreateOrFail: "hb_subset_input_create_or_fail",
	exSubsetInputUnicodeSet:   "hb_subset_input_unicode_set",
	exSubsetInputDestroy:      "hb_subset_input_destroy",
	exSetAdd:                  "hb_set_add",
	exSubsetOrFail:            "hb_subset_or_fail",
}

// moduleName is the name the HarfBuzz module is instantiated under.
const moduleName = "hb-subset"

// ErrMissingExport flags a module which does not export the full function
// table.
var ErrMissingExport = errors.New("wasm module lacks required export")

// WasmNatives implements Natives on top of a wazero runtime hosting
// hb-subset.wasm.
type WasmNatives struct {
	runtime wazero.Runtime
	module  api.Module
	memory  api.Memory
	fn      [exCount]api.Function
}

var _ Natives = (*WasmNatives)(nil)

// NewWasmNatives compiles and instantiates a HarfBuzz subset module. config
// may be nil, in which case wazero's defaults are used.
//
// All exports of the function table are resolved up front; a module lacking
// one of them is rejected with ErrMissingExport.
func NewWasmNatives(ctx context.Context, wasm []byte, config wazero.RuntimeConfig) (*WasmNatives, error) {
	if config == nil {
		config = wazero.NewRuntimeConfig()
	}
	r := wazero.NewRuntimeWithConfig(ctx, config)
	// Freestanding builds of hb-subset import nothing; builds against
	// wasi-libc need the preview1 host module.
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("cannot instantiate WASI: %w", err)
	}
	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("cannot compile wasm module: %w", err)
	}
	modConfig := wazero.NewModuleConfig().
		WithName(moduleName).
		WithStartFunctions("_initialize")
	mod, err := r.InstantiateModule(ctx, compiled, modConfig)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("cannot instantiate wasm module: %w", err)
	}
	w := &WasmNatives{runtime: r, module: mod}
	if w.memory = mod.ExportedMemory("memory"); w.memory == nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("%w: memory", ErrMissingExport)
	}
	for i, name := range exportNames {
		if w.fn[i] = mod.ExportedFunction(name); w.fn[i] == nil {
			_ = r.Close(ctx)
			return nil, fmt.Errorf("%w: %s", ErrMissingExport, name)
		}
	}
	tracer().Debugf("instantiated %s, memory size %d bytes", moduleName, w.memory.Size())
	return w, nil
}

// call invokes export ex and returns its first result, if any.
func (w *WasmNatives) call(ctx context.Context, ex int, args ...uint64) (uint64, error) {
	res, err := w.fn[ex].Call(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", exportNames[ex], err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0], nil
}

func (w *WasmNatives) callPtr(ctx context.Context, ex int, args ...uint64) (Ptr, error) {
	r, err := w.call(ctx, ex, args...)
	return Ptr(api.DecodeU32(r)), err
}

func (w *WasmNatives) Malloc(ctx context.Context, size uint32) (Ptr, error) {
	return w.callPtr(ctx, exMalloc, api.EncodeU32(size))
}

func (w *WasmNatives) Free(ctx context.Context, p Ptr) error {
	_, err := w.call(ctx, exFree, api.EncodeU32(uint32(p)))
	return err
}

func (w *WasmNatives) Write(p Ptr, data []byte) bool {
	return w.memory.Write(uint32(p), data)
}

func (w *WasmNatives) Read(p Ptr, n uint32) ([]byte, bool) {
	return w.memory.Read(uint32(p), n)
}

func (w *WasmNatives) BlobCreate(ctx context.Context, data Ptr, length uint32, mode MemoryMode,
	userData, destroy Ptr) (Ptr, error) {
	return w.callPtr(ctx, exBlobCreate,
		api.EncodeU32(uint32(data)),
		api.EncodeU32(length),
		api.EncodeU32(uint32(mode)),
		api.EncodeU32(uint32(userData)),
		api.EncodeU32(uint32(destroy)))
}

func (w *WasmNatives) BlobDestroy(ctx context.Context, blob Ptr) error {
	_, err := w.call(ctx, exBlobDestroy, api.EncodeU32(uint32(blob)))
	return err
}

func (w *WasmNatives) BlobGetData(ctx context.Context, blob Ptr, lengthOut Ptr) (Ptr, error) {
	return w.callPtr(ctx, exBlobGetData, api.EncodeU32(uint32(blob)), api.EncodeU32(uint32(lengthOut)))
}

func (w *WasmNatives) BlobGetLength(ctx context.Context, blob Ptr) (uint32, error) {
	r, err := w.call(ctx, exBlobGetLength, api.EncodeU32(uint32(blob)))
	return api.DecodeU32(r), err
}

func (w *WasmNatives) FaceCreate(ctx context.Context, blob Ptr, index uint32) (Ptr, error) {
	return w.callPtr(ctx, exFaceCreate, api.EncodeU32(uint32(blob)), api.EncodeU32(index))
}

func (w *WasmNatives) FaceDestroy(ctx context.Context, face Ptr) error {
	_, err := w.call(ctx, exFaceDestroy, api.EncodeU32(uint32(face)))
	return err
}

func (w *WasmNatives) FaceReferenceBlob(ctx context.Context, face Ptr) (Ptr, error) {
	return w.callPtr(ctx, exFaceReferenceBlob, api.EncodeU32(uint32(face)))
}

func (w *WasmNatives) SubsetInputCreateOrFail(ctx context.Context) (Ptr, error) {
	return w.callPtr(ctx, exSubsetInputCreateOrFail)
}

func (w *WasmNatives) SubsetInputUnicodeSet(ctx context.Context, input Ptr) (Ptr, error) {
	return w.callPtr(ctx, exSubsetInputUnicodeSet, api.EncodeU32(uint32(input)))
}

func (w *WasmNatives) SubsetInputDestroy(ctx context.Context, input Ptr) error {
	_, err := w.call(ctx, exSubsetInputDestroy, api.EncodeU32(uint32(input)))
	return err
}

func (w *WasmNatives) SetAdd(ctx context.Context, set Ptr, cp uint32) error {
	_, err := w.call(ctx, exSetAdd, api.EncodeU32(uint32(set)), api.EncodeU32(cp))
	return err
}

func (w *WasmNatives) SubsetOrFail(ctx context.Context, face Ptr, input Ptr) (Ptr, error) {
	return w.callPtr(ctx, exSubsetOrFail, api.EncodeU32(uint32(face)), api.EncodeU32(uint32(input)))
}

// Close closes the wazero runtime and with it the module instance.
func (w *WasmNatives) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}
