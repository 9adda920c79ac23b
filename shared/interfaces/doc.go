// Package interfaces holds the contracts domain packages use to reach each
// other. A domain depends on these interfaces, never on another domain's
// concrete types, and cmd/server wires the implementations together.
//
// Every method may run inside a transaction carried by ctx; implementations
// must use the executor from ctx so the caller's transaction is joined.
package interfaces
