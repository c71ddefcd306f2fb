// Package dataset reads and writes the files around an anchored batch: the
// record array itself, the per-record proof bundle and a manifest of
// expected roots. Files ending in ".br" are brotli compressed.
package dataset
