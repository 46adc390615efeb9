// Package normalisers provides implementations of the Normaliser interface
// for the résumé formats the application accepts. Each normaliser knows how
// to extract text from a specific MIME type.
//
// Normalisers are registered with a Registry at startup; see Default.
package normalisers
