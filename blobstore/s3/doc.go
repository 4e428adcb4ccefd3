// Package s3 implements blobstore.Store on Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("dicts/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// # Features
//
//   - Ranged GETs for partial reads
//   - Multipart uploads with CRC32C checksums for large dictionaries
//   - Automatic pagination for listing
package s3
