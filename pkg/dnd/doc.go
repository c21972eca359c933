// Package dnd resolves drag events over a collection into drop targets.
//
// A drop target is either the collection root or a position (before, on,
// after) relative to one item. [Machine] turns pointer moves and keyboard
// navigation into a single current target, commits drops through a
// [DropHandler], and afterwards selects and focuses what the drop inserted.
//
// # Explicit state
//
// The machine never captures the collection or the selection. Every handler
// receives an [Env] holding the current selection manager and keyboard
// delegate, so a handler always sees the state of the moment it runs.
//
// # Settling
//
// Drop returns a [SettleRequest]. The owner of the machine (a bubbletea
// program, a test) delivers Settle(token) after the request's delay. Tokens
// of superseded drops and cancelled drags are ignored:
//
//	req, ok := m.Drop(ctx, env, session, 0, 0)
//	if ok {
//	    return tea.Tick(req.Delay, func(time.Time) tea.Msg { return settleMsg(req.Token) })
//	}
//
// A drag across collections is tracked by a [Session], which replaces any
// process-wide "current drop collection" state.
package dnd
