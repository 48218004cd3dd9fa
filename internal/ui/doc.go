// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for importing photos:
//  1. [PhotoListView] : Browse the remote library and toggle photos with space
//  2. [ConfirmView] : Confirm the selected import
//  3. [ImportView] : Watch the batch engine consume one photo per tick
//  4. [ResultView] : Display import counts and per-item failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Each import tick runs as a command that advances the batch state by exactly
// one item, so the interface stays responsive during long imports.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
