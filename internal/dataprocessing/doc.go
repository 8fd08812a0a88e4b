// Package dataprocessing implements the ingestion pipeline core: cell
// normalization, per-sheet workbook parsing, and metric enrichment
// (percentage, tie-aware rank, class average, topper score).
//
// The pipeline is value-oriented and side-effect free beyond file reads.
// Malformed input degrades locally: a bad sheet is skipped, a bad cell falls
// back to the absent marker or the current instant, and nothing aborts the
// surrounding workbook.
package dataprocessing
