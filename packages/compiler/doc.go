// Package compiler turns declarative page definitions into React page
// modules.
//
// Main sub-packages:
//
//   - vars: Typed references to page state and template locals
//   - tags: Tag descriptors and their JSX formatting
//   - components: Elements, text, fragments and list rendering (Foreach)
//   - codegen: Page module emission
//   - config: HCL app definitions and compiler options
//   - ctxlog: Context carried slog loggers
package compiler
