// Package services defines the [Library] interface for remote photo providers and implements it for the Photos API.
//
// # Library Interface
//
// The remote provider is abstracted behind a common interface, so listing, album, and item
// operations work uniformly whether they run inside a CLI command, the TUI, or a queue worker.
//
// # Photos Implementation
//
// [PhotosService] uses OAuth2 for authentication with automatic token refresh.
//
// Clients are never shared across accounts. [LibraryConnector.Connect] builds a fresh
// [PhotosService] from the acting account's stored token before every pipeline run, so
// queue tasks submitted by different accounts each talk to the API as themselves.
//
// A shared [rate.Limiter] throttles outbound requests across all clients a connector
// produces, keeping bursty imports under the provider quota.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotConnected] : account has no stored token
//   - [shared.ErrRemoteFetch] : HTTP request failed
//   - [shared.ErrItemNotFound] : media item or album id not found
//
// # API Mappings
//
// Provider JSON responses are converted to neutral DTOs:
//   - [PhotosMediaItem] → [models.MediaItem] with dimensions parsed from string fields
//   - [PhotosAlbum] → [models.Album] with the member count parsed from its string field
//
// Date filters map YYYY-MM-DD values onto the API's structured date and range objects.
package services
