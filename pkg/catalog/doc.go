// Package catalog describes which engines a worker serves. A catalog is a
// YAML (or JSON) document listing engine names and kinds; each kind maps to a
// Factory that builds the engine. The embedded default catalog covers every
// adapter shipped under pkg/engines.
package catalog
