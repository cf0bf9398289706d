// Package textutil provides text helpers shared by the segmentation engine,
// the transcript model, and the exporters.
//
// Whitespace handling is centralized here so that the text a segment reports,
// the text written to SRT, and the tokens produced by free-text edits agree
// on what counts as a separator.
package textutil
