// Package sim provides the core discrete-event simulation engine for edsim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the two event kinds (timeout, resource grant) that drive the simulation
//   - simulator.go: the logical clock, event scheduling and the run loop
//   - resource.go: capacity-limited pools with FIFO and priority wait-lists
//
// # Processes
//
// A process is a chain of continuations. It suspends in exactly two places:
// waiting for a ResourcePool grant (Acquire) and waiting out a sampled
// duration (Timeout). Each suspension schedules one event holding the closure
// that resumes the process, so one replication runs on a single goroutine and
// its trace is deterministic for a fixed seed.
//
// # Architecture
//
// The sim package holds the domain-free kernel; the emergency department model
// lives in sub-packages:
//   - sim/dist/: random variate samplers (exponential, lognormal, categorical, Bernoulli)
//   - sim/department/: patients, stations, arrivals and the run coordinator
//   - sim/trace/: routing decision trace recording
//   - sim/report/: record tables, warm-up filtering, CSV/XLSX output, summary statistics
package sim
