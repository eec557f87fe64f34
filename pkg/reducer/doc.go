// Package reducer holds the pure derived-state functions used by the
// example components: the vote to rating delta table and the clamped
// carousel index with child positioning.
//
// Every function here is total and has no side effects, so components can
// call them from WillUpdate or Updated without touching the scheduler.
package reducer
