// Package minio implements blobstore.Store on MinIO and other
// S3-compatible servers (Ceph, Garage, SeaweedFS) with the MinIO client.
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "dicts", "prod/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog := succinct.NewCatalog(store)
package minio
