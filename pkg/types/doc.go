// Package types defines the coin catalog, the inventory record model, the
// RecordStore and BlobStore interfaces, configuration, and the standard
// errors shared by every coinshelf backend.
package types
