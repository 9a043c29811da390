// Package job contains the Job aggregate, a customer's request for roadside
// service, together with its lifecycle state machines and the dispatch
// bookkeeping the broadcast engine maintains.
//
// A job moves through a broadcast lifecycle (Created → Broadcasted →
// Assigned → InProgress → Completed, with cancellation and re-broadcast
// branches) gated by the booking-fee state. The aggregate owns:
//   - the broadcast list: providers the current round was offered to
//   - the dispatch-attempt ledger: an append-only audit of every offer ever
//     made, across all rounds
//   - the excluded set: providers that must never be offered this job again
//
// ActiveSnapshot is the derived per-provider workload view the eligibility
// rules read; it is recomputed on every dispatch call and never persisted.
package job
