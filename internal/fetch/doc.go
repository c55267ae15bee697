package fetch

// Package fetch implements the metadata probe: it drives the extraction
// engine in metadata-only mode, normalizes the heterogeneous raw record into
// a ContentRecord, and resolves a displayable thumbnail preview.
