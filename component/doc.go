// Package component defines lifecycle-managed parts of the process and a
// registry that starts them in order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: one-line description for the startup log
//   - RouteProvider: HTTP routes served by a component
package component
