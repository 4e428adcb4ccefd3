// Package blobstore stores serialized dictionaries as immutable named blobs.
//
// Implementations must be safe for concurrent use. Put replaces a blob
// atomically: readers see either the old or the new contents.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem; blobs are memory-mapped on Open
//   - MemoryStore: process memory, for tests and ephemeral catalogs
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with ranged reads and multipart uploads
//
// Blobs that also implement Mappable expose their bytes directly, which
// lets uncompressed dictionaries be used without copying.
package blobstore
