package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible replication.
// Two replications with the same SimulationKey and identical parameters
// MUST produce bit-for-bit identical records.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// ReplicationKey derives the key of replication run from a master seed.
// Every replication of a batch gets an independent key.
func ReplicationKey(seed int64, run int) SimulationKey {
	return SimulationKey(seed ^ fnv1a64(fmt.Sprintf("replication_%d", run)))
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals is the RNG subsystem for inter-arrival gaps.
	SubsystemArrivals = "arrivals"

	// SubsystemTriage is the RNG subsystem for priority, lab and bed outcomes
	// decided when a patient is admitted to triage.
	SubsystemTriage = "triage"
)

// SubsystemStation returns the subsystem name for a station's service times.
func SubsystemStation(name string) string {
	return fmt.Sprintf("station_%s", name)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated random streams per subsystem.
// Each stream is seeded once and then advances; nothing is reseeded per draw.
//
// Derivation: PCG(key, fnv1a64(subsystemName)).
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine,
// which is always the case inside one replication.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.PCG
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.PCG),
	}
}

// ForSubsystem returns the stream for the named subsystem.
// The same name always returns the same source (cached). Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) rand.Source {
	if src, ok := p.subsystems[name]; ok {
		return src
	}
	src := rand.NewPCG(uint64(p.key), uint64(fnv1a64(name)))
	p.subsystems[name] = src
	return src
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
