// Package content holds the content-block aggregation model: a registry of
// content types keyed by tag, the per-type capture flow, the append-only block
// store and the render dispatcher.
//
// Nothing here performs I/O. Capture flows that need an external step hand a
// GenerationRequest to the caller and take the result back through Resolve;
// only the latest request of a capture is honoured.
package content
