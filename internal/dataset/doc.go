// Package dataset loads raw sensor exports into a uniform tabular model.
//
// Loggers and data-acquisition tools in the field produce CSV and Excel
// files with inconsistent headers (Chinese or English, decorated with
// units and whitespace), mixed timestamp notations, and ragged rows.
// This package is the boundary where that mess is absorbed: loaders
// produce a Table of raw strings, detection resolves which columns hold
// the timestamp and each indicator, and the timestamp helpers normalize
// CJK date notation before parsing. Everything downstream works with
// typed values only.
package dataset
