// Package processor contains the core translation logic. It decides the
// source language of a message, resolves the target languages, fans out one
// translation per target through the concurrency gate and merges the results
// into an ordered list of outcomes. This package serves as the main
// coordinator between the gate, the language classifier, the glossary and
// the translation client.
package processor
