// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PersistenceStore: Whole-store load and save (JSON file or SQLite)
//   - ConfigStore: User settings (AI profiles, board limits)
//   - RichText: Outline extraction and markdown conversion for documents
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CompletionService: Text completion. Without it, AI features are disabled.
//   - DocumentExporter / ProjectExporter: Export commands report unavailable.
//   - StoreWatcher: Live reload on external edits is skipped.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
