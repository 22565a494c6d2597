// Package broadcast implements broadcast template management and dispatch
// planning.
//
// Planning and delivery are deliberately split: Plan validates the template,
// resolves the recipient set from the tag selector, and persists exactly one
// pending dispatch record per call. The dispatch worker (internal/worker)
// later claims pending records, delivers the messages, and performs the
// one-way transition to sent or failed. An empty recipient set is a valid
// no-op dispatch, logged but never rejected.
package broadcast
