package heap

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/internal/region"
)

// Runtime debug flag for allocator logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// Heap is a best-fit allocator over one fixed arena.
//   - Block headers live inside the arena, in address order, linked both ways
//   - Alloc scans the whole chain and splits the chosen block when the
//     remainder can hold a header plus at least one byte
//   - Free merges with the successor first, then the predecessor
//   - One mutex serializes every operation
type Heap struct {
	mu       sync.Mutex
	data     []byte
	release  func() error
	closed   bool
	junk     bool
	junkByte byte
	log      *slog.Logger
	stats    Stats
}

// New maps a fresh arena of size bytes and initializes it.
func New(size int, opts Options) (*Heap, error) {
	if err := checkArenaSize(size); err != nil {
		return nil, err
	}
	data, release, err := region.Map(size)
	if err != nil {
		return nil, fmt.Errorf("heap: map arena: %w", err)
	}
	h := newHeap(data, opts)
	h.release = release
	h.Init()
	return h, nil
}

// NewFromBuffer manages arena as the heap's memory. The heap owns arena until
// Close; the caller must not touch it directly.
func NewFromBuffer(arena []byte, opts Options) (*Heap, error) {
	if err := checkArenaSize(len(arena)); err != nil {
		return nil, err
	}
	h := newHeap(arena, opts)
	h.Init()
	return h, nil
}

func checkArenaSize(size int) error {
	if size < format.MinArenaSize || uint64(size) > format.MaxArenaSize {
		return fmt.Errorf("%w: %d bytes (want %d..%d)", ErrArenaSize, size, format.MinArenaSize, format.MaxArenaSize)
	}
	return nil
}

func newHeap(data []byte, opts Options) *Heap {
	log := opts.Logger
	if log == nil {
		if logAlloc {
			log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			log = logger.L
		}
	}
	return &Heap{
		data:     data,
		junk:     opts.JunkFill,
		junkByte: opts.JunkByte,
		log:      log,
	}
}

// Init carves the whole arena into a single free block and resets the
// counters. Calling it on a heap with live allocations silently discards them.
func (h *Heap) Init() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	format.PutHeader(h.data, 0, format.Header{
		Magic: format.MagicLive,
		Prev:  format.NilOffset,
		Next:  format.NilOffset,
		Size:  uint32(len(h.data) - format.HeaderSize),
	})
	h.stats = Stats{}
	h.log.Debug("heap: arena initialized", "arena", len(h.data), "payload", len(h.data)-format.HeaderSize)
}

// Size returns the arena size in bytes, or 0 after Close.
func (h *Heap) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.data)
}

// Alloc reserves n bytes using best fit.
//
// The returned slice has length n and capacity equal to the granted payload,
// which exceeds n when the chosen block's remainder was too small to split.
func (h *Heap) Alloc(n int) (Ref, []byte, error) {
	if n == 0 {
		return NilRef, nil, nil
	}
	if n < 0 {
		return NilRef, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return NilRef, nil, ErrClosed
	}
	h.stats.AllocCalls++

	off, ok := h.bestFit(n)
	if !ok {
		h.stats.AllocFailures++
		h.log.Debug("heap: no fit", "need", n, "largest_free", h.largestFree())
		return NilRef, nil, ErrNoSpace
	}

	size := int(h.field(off, format.SizeOffset))
	if leftover := size - n; leftover > format.HeaderSize {
		h.split(off, n, leftover)
		size = n
	}
	h.put(off, format.FlagsOffset, format.FlagUsed)
	h.put(off, format.RequestedOffset, uint32(n))

	start := off + format.HeaderSize
	end := start + size
	if h.junk {
		fill(h.data[start:end], h.junkByte)
	}

	h.stats.BytesAllocated += int64(size)
	h.stats.InUseBytes += int64(size)
	return Ref(start), h.data[start : start+n : end], nil
}

// bestFit returns the header offset of the free block with the least
// leftover for n bytes. Ties go to the lowest address.
func (h *Heap) bestFit(n int) (int, bool) {
	best, bestDelta := -1, 0
	off := 0
	for {
		hdr := h.header(off)
		if !hdr.Used() && int(hdr.Size) >= n {
			delta := int(hdr.Size) - n
			if best < 0 || delta < bestDelta {
				best, bestDelta = off, delta
				if delta == 0 {
					break
				}
			}
		}
		if hdr.Next == format.NilOffset {
			break
		}
		off = int(hdr.Next)
	}
	return best, best >= 0
}

// split shrinks the block at off to n bytes and links a free block holding
// the rest of its payload right after it.
func (h *Heap) split(off, n, leftover int) {
	tail := off + format.HeaderSize + n
	next := h.field(off, format.NextOffset)

	format.PutHeader(h.data, tail, format.Header{
		Magic: format.MagicLive,
		Prev:  uint32(off),
		Next:  next,
		Size:  uint32(leftover - format.HeaderSize),
	})
	if next != format.NilOffset {
		h.put(int(next), format.PrevOffset, uint32(tail))
	}
	h.put(off, format.NextOffset, uint32(tail))
	h.put(off, format.SizeOffset, uint32(n))

	h.stats.SplitCount++
	h.log.Debug("heap: split", "off", off, "size", n, "remainder_off", tail, "remainder", leftover-format.HeaderSize)
}

// Free releases the block whose payload starts at ref.
//
// ref is validated: refs that do not name a live block on the
// chain fail with ErrBadRef, and repeated frees fail with ErrDoubleFree. The
// arena is left untouched in both cases.
func (h *Heap) Free(ref Ref) error {
	if ref == NilRef {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	h.stats.FreeCalls++

	off, err := h.owner(ref)
	if err != nil {
		h.stats.FreeErrors++
		h.log.Warn("heap: rejected free", "ref", uint32(ref), "err", err)
		return err
	}

	size := int64(h.field(off, format.SizeOffset))
	h.put(off, format.FlagsOffset, 0)
	h.put(off, format.RequestedOffset, 0)
	h.stats.BytesFreed += size
	h.stats.InUseBytes -= size

	h.coalesce(off)
	return nil
}

// coalesce merges the free block at off with its free neighbors: successor
// first, then predecessor, so one pass always leaves a maximal free run.
func (h *Heap) coalesce(off int) {
	if next := h.field(off, format.NextOffset); next != format.NilOffset && !h.used(int(next)) {
		h.absorb(off, int(next))
		h.stats.CoalesceForward++
	}
	if prev := h.field(off, format.PrevOffset); prev != format.NilOffset && !h.used(int(prev)) {
		h.absorb(int(prev), off)
		h.stats.CoalesceBackward++
	}
}

// absorb folds the block at victim into its predecessor keep. The victim's
// header is stamped dead so a later free of its payload reports ErrDoubleFree.
func (h *Heap) absorb(keep, victim int) {
	v := h.header(victim)
	size := h.field(keep, format.SizeOffset) + v.Size + format.HeaderSize

	h.put(keep, format.SizeOffset, size)
	h.put(keep, format.NextOffset, v.Next)
	if v.Next != format.NilOffset {
		h.put(int(v.Next), format.PrevOffset, uint32(keep))
	}
	h.put(victim, format.MagicOffset, format.MagicDead)

	h.log.Debug("heap: coalesce", "off", keep, "absorbed", victim, "size", size)
}

// owner maps a payload ref back to the header of a used block, checking that
// the header is live and linked.
func (h *Heap) owner(ref Ref) (int, error) {
	r := int(ref)
	if r < format.HeaderSize || r >= len(h.data) {
		return 0, fmt.Errorf("%w: 0x%X outside arena", ErrBadRef, r)
	}
	off := r - format.HeaderSize
	hdr := h.header(off)

	switch hdr.Magic {
	case format.MagicLive:
	case format.MagicDead:
		return 0, fmt.Errorf("%w: 0x%X was merged into a neighbor", ErrDoubleFree, r)
	default:
		return 0, fmt.Errorf("%w: 0x%X is not a block payload", ErrBadRef, r)
	}
	if !h.linked(off, hdr) {
		return 0, fmt.Errorf("%w: 0x%X header is not on the block chain", ErrBadRef, r)
	}
	if !hdr.Used() {
		return 0, fmt.Errorf("%w: 0x%X", ErrDoubleFree, r)
	}
	return off, nil
}

// linked reports whether the header at off is consistent with its neighbors.
func (h *Heap) linked(off int, hdr format.Header) bool {
	end, ok := buf.End(len(h.data), off+format.HeaderSize, int(hdr.Size))
	if !ok {
		return false
	}

	if hdr.Prev == format.NilOffset {
		if off != 0 {
			return false
		}
	} else {
		p := int(hdr.Prev)
		if p >= off || h.field(p, format.MagicOffset) != format.MagicLive || h.field(p, format.NextOffset) != uint32(off) {
			return false
		}
	}

	if hdr.Next == format.NilOffset {
		return end == len(h.data)
	}
	n := int(hdr.Next)
	return n == end && buf.Has(h.data, n, format.HeaderSize) && h.field(n, format.PrevOffset) == uint32(off)
}

// Payload returns the caller-visible bytes of a used block: length is the
// requested size, capacity the granted size.
func (h *Heap) Payload(ref Ref) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	off, err := h.owner(ref)
	if err != nil {
		return nil, err
	}
	hdr := h.header(off)
	start := int(ref)
	return h.data[start : start+int(hdr.Requested) : start+int(hdr.Size)], nil
}

// Dump walks the chain from the head and reports every block in address
// order. Each call returns a new slice.
func (h *Heap) Dump() []Block {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	var blocks []Block
	h.walk(func(off int, hdr format.Header) {
		blocks = append(blocks, Block{
			Offset:    off,
			Ref:       Ref(off + format.HeaderSize),
			Size:      int(hdr.Size),
			Requested: int(hdr.Requested),
			Used:      hdr.Used(),
		})
	})
	return blocks
}

// Verify checks every arena invariant; see package verify.
func (h *Heap) Verify() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	return verify.AllInvariants(h.data)
}

// Close releases the arena mapping. The heap is unusable afterwards.
func (h *Heap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.data = nil
	if h.release == nil {
		return nil
	}
	return h.release()
}

// ============================================================================
// Internal helpers
// ============================================================================

// walk visits the chain in address order. Offsets on the chain are trusted.
func (h *Heap) walk(fn func(off int, hdr format.Header)) {
	off := 0
	for {
		hdr := h.header(off)
		fn(off, hdr)
		if hdr.Next == format.NilOffset {
			return
		}
		off = int(hdr.Next)
	}
}

func (h *Heap) largestFree() int {
	largest := 0
	h.walk(func(_ int, hdr format.Header) {
		if !hdr.Used() {
			largest = max(largest, int(hdr.Size))
		}
	})
	return largest
}

func (h *Heap) header(off int) format.Header {
	hdr, _ := format.ReadHeader(h.data, off)
	return hdr
}

func (h *Heap) used(off int) bool {
	return h.field(off, format.FlagsOffset)&format.FlagUsed != 0
}

func (h *Heap) field(off, field int) uint32 {
	return format.ReadU32(h.data, off+field)
}

func (h *Heap) put(off, field int, v uint32) {
	format.PutU32(h.data, off+field, v)
}

// fill stamps every byte of p with b.
func fill(p []byte, b byte) {
	if len(p) == 0 {
		return
	}
	p[0] = b
	for i := 1; i < len(p); i *= 2 {
		copy(p[i:], p[:i])
	}
}
