// Package models defines domain entities and persistence interfaces for the picshuttle import service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing remote library data
//   - [MediaItem] : Photo metadata from the remote photo API
//   - [Album] : Shared album metadata
//   - [MediaPage] / [AlbumPage] : Paginated listing responses with continuation tokens
//   - [SearchFilters] / [SearchQuery] : Date-filtered listing parameters
//   - [Selection] / [AlbumSelection] / [ImportContext] : Per-submission import payloads
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Account] : Local users with stored remote OAuth tokens
//   - [MediaRecord] : Imported photos, deduplicated by remote id
//   - [Event] : Album-derived grouping entities, deduplicated by album id
//   - [Collection] : Destination content entities media and events attach to
//   - [QueueTask] : Durable background task rows
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
