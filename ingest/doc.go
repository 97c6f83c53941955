// Package ingest loads vehicle catalog data in bulk.
//
// The Loader reads partner CSV exports, stores each row as a catalog
// record, and indexes its description embedding for retrieval. Embedding
// runs in batches fanned out over a worker pool. A content fingerprint
// stored with each vector lets a reload skip re-embedding rows whose
// descriptions have not changed, so loading the same file twice is cheap
// and idempotent.
package ingest
