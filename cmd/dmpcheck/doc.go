// Dmpcheck validates jsonpickle documents written by dmpbbo.
//
// Each file is decoded through the closed family registries and reported
// as a one-line summary, or as the decode error with the member path that
// caused it:
//
//	dmpcheck trained/dmp.json
//	dmpcheck --kind fa forcing.json.gz
//	dmpcheck --tags
//
// Files may be plain JSON, JSON with comments, or gzip-compressed.
//
// Exit codes:
//
//	0  all files decoded
//	1  at least one file failed to decode
//	2  usage error
package main
