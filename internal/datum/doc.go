// Package datum owns the STS status datum model.
//
// Ownership boundary:
// - format tags and the tagged value union
// - construction and shape validation
// - serialisable documents for CLI and HTTP surfaces
//
// The wire codec lives in internal/protocol/frame and only re-checks the
// format tag; everything else about a datum's shape is validated here.
package datum
