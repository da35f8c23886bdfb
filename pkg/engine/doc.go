// Package engine defines the render capability shared by every template engine
// adapter, the registry that holds configured engines, and the selector that
// narrows the registry to the active set served by a worker.
package engine
