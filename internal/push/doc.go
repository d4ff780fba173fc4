// Package push implements the scheduled delivery engine: per-job minute
// checkers against a fixed UTC+8 reference clock, persisted job state that
// survives restarts, and content-fingerprint dedup so an unchanged payload
// is pushed at most once.
package push
