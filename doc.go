// Package cinegrade applies cinematic color grades to photos.
//
// The package is a pure-Go grading engine: a library of deterministic
// pixel-buffer transforms, a catalog of named presets composed from them, a
// filter graph that turns an edit state into an output image, and a render
// scheduler that keeps an interactive preview responsive by coalescing rapid
// edits into a single in-flight render. Decoding, persistence and UI are left
// to the caller.
package cinegrade
