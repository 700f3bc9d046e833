// Package journal implements the daily plan/log lifecycle engine.
//
// A document holds one calendar day of entries on a 24-slot clock that
// starts at 7am and wraps past midnight. Planned entries move through a
// status state machine (active → missed/completed/rescheduled); logged
// entries record what actually happened and can close the earliest open
// plan for the same task.
//
// All lifecycle functions are pure, synchronous transformations over an
// in-memory Document. The Service facade adds persistence, sweeping
// before every mutation, and telemetry.
package journal
