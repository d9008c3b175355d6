// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage (~/.gplan/config.toml)
//   - PromptStore: editable assistant system prompts (~/.gplan/prompts/)
package file
