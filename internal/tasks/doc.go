// Package tasks orchestrates photo imports from a remote library with real-time progress reporting.
//
// # Core Pipeline
//
// [Importer.ImportOne] turns one remote media id into a local record:
//
//  1. Load the acting account and connect to the remote library with its
//     stored credentials. Background runs impersonate the submitting
//     account, never the process identity.
//  2. Fetch the remote item and store its content on disk.
//  3. Find or create the local record keyed by remote id. Re-import of an
//     already-imported id returns the existing record unchanged.
//  4. Resolve the album grouping from the submission's album mapping and
//     create its event on first use.
//  5. Attach the record and event to the destination collection,
//     idempotently.
//
// # Engines
//
// Two engines drive the pipeline with different failure policies:
//
// [BatchEngine] imports a fixed selection synchronously, one item per Step
// invocation. State is a value ([BatchState]); failed items are logged
// and skipped, never retried.
//
// [QueueEngine] consumes durable tasks under an external scheduler. Failures
// are classified: a disconnected account dead-letters immediately, transient
// errors retry with attempt-scaled backoff until the budget runs out.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Submissions
//
// [BuildAlbumMapping] expands an album selection into per-album member sets,
// attributing overlapping items to the earliest album in submission order.
// [QueueEngine.EnqueueImports] appends one task per id followed by exactly
// one completion notice via [QueueEngine.EnqueueCompletionNotice].
package tasks
