// Package files reads the yearly payroll source tables.
//
// A source is a header-bearing table in CSV or XLSX form. Reader resolves
// source names against the configured input directory and returns a Table
// whose rows are keyed by header name, with surrounding whitespace trimmed
// from every cell.
//
// Discovery finds payroll_<year> files in a directory when the source list
// is not configured explicitly.
//
// Example usage:
//
//	reader := files.NewReader(paths, logger)
//	tables, err := files.ReadAll(ctx, reader, cfg.Input.Files, cfg.Input.Concurrency)
package files
