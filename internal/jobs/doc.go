// Package jobs runs background work one job at a time.
//
// [Service.Enqueue] validates a payload, persists the job as pending and pushes it onto an
// in-memory FIFO [Queue]. A single [Worker] pops jobs, moves them through
// pending → running → done | failed and announces each transition on the event bus.
//
// Jobs are never retried. A job that fails stays failed; enqueue a new one to try again.
//
// On startup [Service.Recover] re-queues pending rows left behind by a previous process and
// fails rows that were still running when it stopped.
package jobs
