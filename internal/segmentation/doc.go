// Package segmentation clusters a time-ordered observation stream into
// segments.
//
// Consecutive observations that share a key and sit within the gap threshold
// of their predecessor collapse into one Segment. A reappearance of the same
// key after a longer gap starts a new Segment. Stream processes observations
// incrementally and can publish provisional results; Cluster is the batch
// form. Input must be ordered by time. Decreasing timestamps are a caller
// error that Runner rejects only when asked to validate order.
package segmentation
