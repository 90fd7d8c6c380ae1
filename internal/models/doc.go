// Package models defines the core domain models for the family safe.
//
// # Models
//
//   - Address: opaque identity of an account, supplied by the host
//   - Member: an address in the safe's registry
//   - Event: a journaled notification (deposit, withdrawal, member added)
//   - State: the registry and balance restored from the journal
//   - Account: login credentials bound to an address
//
// # Design Principles
//
//  1. Addresses are opaque: compared as strings, never parsed
//  2. Amounts are uint64 minimal units, so the balance can never go negative
//  3. Timestamps are Unix seconds, matching the rest of the storage layer
//  4. Relationships use addresses, not pointers
package models
