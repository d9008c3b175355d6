// Package services implements the driving port interfaces.
//
// The Workspace owns the project store and the open project's content;
// every other service reads and edits that content through
// driving.ProjectService. Persistence, export, rich text and completion
// are reached through driven ports.
package services
