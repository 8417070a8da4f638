// Package annotation models the user-created marks a debugging session keeps:
// comments and labels attached to code addresses.
//
// Both kinds share one struct. The Kind only decides which key the text is
// stored under ("comment" or "label") and which type tag the session file
// records, so there is no type hierarchy to dispatch through.
//
// Annotations read back from a session file start pending: their address is
// an offset relative to the owning module. Rebase turns that offset into an
// absolute address once the module is found loaded:
//
//	a := annotation.NewPending(annotation.KindComment, 0x1234, "libc.so.6", "hot loop")
//	a.Rebase(regions) // address is now libcStart + 0x1234
//
// Rebase is idempotent and safe to call on every read.
package annotation
