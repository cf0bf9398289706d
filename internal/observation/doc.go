// Package observation defines the raw, timestamped text detections that feed
// segmentation, plus the sources that produce them.
//
// An Observation is one OCR result for a sampled frame or one recognized word
// from a transcription. Sources deliver observations in non-decreasing time
// order; that ordering is a caller precondition, checked only when a consumer
// asks for it via ValidateOrder or NewOrderedSource.
package observation
