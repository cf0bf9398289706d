// Package preflight provides readiness checks for the filesystem paths,
// document database and translation backend that framescribe depends on.
//
// The CLI "framescribe doctor" command runs RunAll and renders each Result.
// Commands that write exports call CheckDirectoryAccess before writing.
package preflight
