package model

// Package model defines domain data structures used across the app: probed
// content records, download requests, transfer state snapshots, and error
// classification. Structures are designed for explicit state transitions and
// read-only consumption by the presentation layer.
