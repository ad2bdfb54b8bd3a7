// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface, which covers both AWS S3
// and self-hosted MinIO. Producers drop one JSON batch per invocation under the
// configured batch prefix; the ingestion service reads them from there and can move
// processed batches to the archive prefix.
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket bootstrap for the integrity check.
//   - PutObject / GetObject / RemoveObject: single object access.
//   - ListObjects: prefix listing.
//   - ReadObject, ListKeys, MoveObject: helpers built on the interface.
//
// The mocks subpackage holds a testify mock of Client plus listing and body helpers.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	keys, err := storage.ListKeys(ctx, client, cfg.Storage.Bucket, cfg.Storage.BatchPrefix)
package storage
