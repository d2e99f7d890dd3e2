// Package sched runs many scripted robots from one host loop.
//
// The Executor keeps one program and one bot per task in spawn order.
// Tick advances the clock once and gives every running task a single
// Run slice, so tasks interleave deterministically and a failing task
// never disturbs its neighbours.
package sched
