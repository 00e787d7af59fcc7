package hierarchy

import "math/rand"

// deterministicColorSeed is the fixed seed behind the deterministic
// coloring path's initial permutation shuffle; it is what makes that path's
// output a pure function of the input graph.
const deterministicColorSeed = 0x5eed1e55

const goldenRatio64 uint64 = 0x9E3779B97F4A7C15

// shardRNG returns an independent math/rand source seeded from baseSeed and
// a shard start offset. The original advances a single pcg32 stream by
// shardStart so every worker's draws are reproducible for a fixed sharding;
// math/rand has no public stream-advance primitive, so each shard instead
// gets its own source seeded from a mix of the base seed and its start
// index. Two runs with the same grain size and thread count therefore still
// draw identical numbers per shard.
func shardRNG(baseSeed int64, shardStart int) *rand.Rand {
	mixed := baseSeed ^ int64(uint64(shardStart)*goldenRatio64)
	return rand.New(rand.NewSource(mixed))
}
