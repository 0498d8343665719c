// Package domain is the vocabulary shared by every layer: wallet sessions,
// scores, loans, pools and transactions, plus the interfaces services depend
// on. The types and interfaces subpackages hold the definitions; this package
// re-exports them so callers import one path.
package domain
