package plugin

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// guestMallocNames lists the exported allocation functions a transformer
// artifact may provide, tried in order. Artifacts compiled by different
// toolchains name this differently; the host accepts any of them.
var guestMallocNames = []string{"__guest_malloc", "malloc", "allocate", "__recipex_allocate"}

// findMalloc locates a guest module's allocation function under any of the
// accepted names.
func findMalloc(mod api.Module) (api.Function, error) {
	for _, name := range guestMallocNames {
		if fn := mod.ExportedFunction(name); fn != nil {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("allocation function (%v) not found in WASM module", guestMallocNames)
}

// callPacked invokes a guest-exported function using the packed (ptr, len)
// -> packed uint64 calling convention: the host allocates guest memory for
// input, writes it, calls fn(ptr, len), and reads the (ptr, len) pair packed
// into the single uint64 result.
func callPacked(ctx context.Context, mod api.Module, fn api.Function, input []byte) ([]byte, error) {
	malloc, err := findMalloc(mod)
	if err != nil {
		return nil, err
	}

	inputSize := uint64(len(input))
	results, err := malloc.Call(ctx, inputSize)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate guest memory: %w", err)
	}
	inputPtr := uint32(results[0])

	if len(input) > 0 && !mod.Memory().Write(inputPtr, input) {
		return nil, fmt.Errorf("failed to write input into guest memory")
	}

	packed, err := fn.Call(ctx, uint64(inputPtr), inputSize)
	if err != nil {
		return nil, fmt.Errorf("guest function call failed: %w", err)
	}

	resultPtr := uint32(packed[0] >> 32)
	resultSize := uint32(packed[0])

	output, ok := mod.Memory().Read(resultPtr, resultSize)
	if !ok {
		return nil, fmt.Errorf("failed to read guest function result from memory")
	}

	out := make([]byte, len(output))
	copy(out, output)
	return out, nil
}
