// Package ingestion provides pipeline orchestration for loading clinician
// profiles into storage.
//
// The Pipeline type manages the ingestion workflow for profiles, including:
//   - Validating incoming profiles and rejecting malformed batches up front
//   - Precomputing checklist data from structured expertise blobs
//   - Writing batches to storage concurrently with retry on transient failures
//
// Writes are performed concurrently using a worker pool to maximize
// throughput. A batch that still fails after retries fails the whole
// IngestProfiles call.
package ingestion
