// Package trace records what the CBot host and its programs are doing.
//
// Events come in three shapes: spans (a begin/end pair around compile,
// save, restore or a scheduler tick), points (native calls, program
// start and finish) and heartbeats from the host loop watchdog. Each
// event may carry the owner of the program that produced it and the
// executor tick it happened on.
//
//	cbot run --trace=- --trace-level=detail bot.cbot
//	cbot run --trace-mode=ring --trace-heartbeat=1s bot.cbot
//
// Programs stamp their owner with ForOwner, the executor stamps ticks
// with WithTicks. In ring mode the last events are kept in memory and
// dumped when the command exits, which is usually enough to see which
// program a stuck run was inside.
package trace
