package platform

// Package platform contains source-platform detection and filesystem glue:
// the ordered URL classification rules, filename sanitization shared by the
// acquisition and conversion phases, and directory/file helpers.
