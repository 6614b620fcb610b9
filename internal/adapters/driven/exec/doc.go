// Package exec contains the executor adapters: a CommandRunner backed
// by os/exec, a bounded local worker pool running one search
// subprocess per chunk, and a SLURM adapter submitting one batch job
// per chunk and polling until every job reaches a terminal state.
package exec
