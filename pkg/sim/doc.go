// Package sim implements the deterministic thermal/battery regulator
// simulation. It contains:
//
//   - Snapshot: the shared value record (temperature, battery charge,
//     operating state)
//   - AcclimateSequence: a resumable stepwise producer that regulates
//     temperature while draining the battery
//   - ChargeSequence: a one-shot producer that charges the battery to
//     its target
//   - Driver: the finite-state orchestrator owning the canonical
//     snapshot and the sequence lifecycles
//
// Sequences are explicit state objects resumed cooperatively by the
// driver on a single logical thread; a "suspension" is just a point
// where the driver reads the yielded snapshot, not a concurrency
// primitive.
package sim
