// Package qtd implements "Question the Docs": pick a documentation corpus from a
// fixed list and ask natural-language questions about it.
//
// This package contains domain types, interfaces and the query-session state
// machine following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/, sqlite/,
// gemini/, bubbletea/).
package qtd
