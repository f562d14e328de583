// Package verify checks the structural invariants of a heap arena by walking
// its raw bytes. It does not trust any state outside the arena, so it can
// validate an arena that was corrupted by an invalid free or a stray write.
//
// Checks:
//
//   - Chain: every header carries the live magic, its prev link names the
//     block walked before it, and its next link names the header that
//     physically follows its payload (no gaps, no overlaps).
//   - Coverage: header plus payload sizes over the whole chain add up to the
//     arena length, and the last block ends exactly at the arena end.
//   - Coalesced: no two address-adjacent blocks are both free.
//   - Accounting: used blocks record a requested size in 1..size, free
//     blocks record zero.
package verify
