// Package heap provides a best-fit free-list allocator over a single fixed
// arena.
//
// # Overview
//
// The arena is one contiguous byte range, either mapped by New or supplied by
// the caller through NewFromBuffer. Every block starts with a header embedded
// in the arena (see internal/format); headers form a doubly linked list in
// address order, and that list is the only bookkeeping structure.
//
//	offset 0                                                  len(arena)
//	| hdr | payload | hdr | payload | hdr | payload ............... |
//
// # Operations
//
//   - Init: carve the whole arena into one free block
//   - Alloc(n): best-fit scan, split when the remainder exceeds a header,
//     junk-fill the payload
//   - Free(ref): mark free, merge with the successor, then the predecessor
//   - Dump: report every block in address order
//
// # Usage Example
//
//	h, err := heap.New(64<<10, heap.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	ref, buf, err := h.Alloc(128)
//	if errors.Is(err, heap.ErrNoSpace) {
//	    // arena exhausted; free something and retry
//	}
//	copy(buf, payload)
//
//	if err := h.Free(ref); err != nil {
//	    return err // ErrBadRef or ErrDoubleFree
//	}
//
// # Refs
//
// A Ref is the payload's offset in the arena. The header sits exactly
// format.HeaderSize bytes before it. NilRef (0) can never name a payload.
//
// # Splitting
//
// A block whose leftover after the request is at most one header is handed
// out whole. The extra bytes show up as the difference between Size and
// Requested in a dump.
//
// # Junk Fill
//
// Fresh payloads are stamped with Options.JunkByte (0x05 by default) so reads
// of uninitialized memory are easy to spot. Build with -tags heapnojunk to
// turn it off by default, or set Options.JunkFill.
//
// # Invalid Frees
//
// Free validates its argument instead of trusting it. A ref that does not
// name a live, correctly linked header fails with ErrBadRef; freeing a block
// twice fails with ErrDoubleFree. Neither modifies the arena.
//
// # Thread Safety
//
// Heap instances are safe for concurrent use. A single mutex serializes
// Alloc, Free, Dump, Verify, Stats and Init; nothing blocks while holding it.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap/verify: raw arena invariant checks
//   - github.com/joshuapare/heapkit/heap/printer: text and JSON dump reports
//   - github.com/joshuapare/heapkit/internal/format: header layout
package heap
