// Package main hosts the framescribe CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into segmentation runs
// over observation streams, edits against stored transcript documents, and
// subtitle exports. Each invocation opens the document store, applies one
// operation, and closes it again, so edit history survives between runs.
//
// Domain logic belongs in the internal packages; commands here parse flags,
// resolve documents, and render results.
package main
