// Package domain defines the core planning entities for gplan.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Store / ProjectMeta / ProjectContent: everything that is persisted
//   - Whiteboard: nodes, edges and the pan/zoom Viewport
//   - DocTree: the parent-pointer forest of rich-text documents
//   - TeamMember / TodoItem: the roster and task list
//   - UIMock: pages, components, assets and the condition language
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
