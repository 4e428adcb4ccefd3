// Package fs abstracts the filesystem operations used for atomic file
// writes, so tests can inject failures.
//
//   - [LocalFS] uses the os package and is the [Default].
//   - [FaultyFS] wraps another FileSystem and fails writes, syncs, closes
//     or renames on request.
//
// Reads go through memory mapping and are not covered here.
package fs
