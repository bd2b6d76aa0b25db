// Package shared holds cross-cutting helpers that belong to no single
// domain package.
//
// Its only current content is the testutil subpackage, which provides
// the buffered slog handler the package tests use to assert on log
// output. Code here must stay free of domain logic and must not import
// other internal packages, so that anything can depend on it without
// cycles.
package shared
