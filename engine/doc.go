// Package engine orchestrates one user turn end to end: rate limit gate,
// mention resolution, routing to a target set, concurrent assistant
// invocations, aggregation of the results and atomic persistence of the
// exchange.
//
// Concurrency model:
//   - Each SubmitTurn call is independent; the engine holds no mutable state
//     of its own (the rate limiter owns the only shared counter).
//   - A broadcast fans out one goroutine per target; results are buffered
//     until every target has settled, so persistence order never depends on
//     completion order.
//   - A per-exchange deadline bounds wall-clock time to roughly one
//     assistant call ceiling, since targets run concurrently. Aborted calls
//     count as failures, never as silent omissions.
//
// Error flow: RateLimited and InvalidParticipant reject before any external
// call; a single-target failure propagates to the caller with nothing
// persisted; broadcast failures are absorbed as warnings unless every target
// failed. The engine never retries; resubmission is the caller's decision.
package engine
