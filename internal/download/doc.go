package download

// Package download implements the core orchestration state machine: it
// drives the extraction engine through acquisition, conditionally hands the
// result to the transcoder, and publishes transfer state snapshots to the
// presentation layer throughout. It owns error classification and cleanup
// for the whole run.
