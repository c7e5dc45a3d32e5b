// Package firmware materializes the Meshtastic firmware configuration
// tree that the resolver reads.
//
// A Client lists available firmware refs on GitHub and downloads the
// source archive for one of them, keeping only the .ini configuration
// files. Refreshes are atomic: the new tree is extracted beside the old
// one and swapped in with a rename, under a lock that readers take via
// Snapshot, so a resolution pass never observes a half-written tree.
//
// Build execution, job queues, and result caches live elsewhere; this
// package stops at producing a readable tree on local disk.
package firmware
