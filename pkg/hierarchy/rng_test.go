package hierarchy

import "testing"

func TestShardRNGIsDeterministicPerShard(t *testing.T) {
	a := shardRNG(42, 100)
	b := shardRNG(42, 100)
	for i := 0; i < 10; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d differs for identical (seed, shardStart): %v vs %v", i, x, y)
		}
	}
}

func TestShardRNGDiffersAcrossShards(t *testing.T) {
	a := shardRNG(42, 0)
	b := shardRNG(42, 512)
	same := true
	for i := 0; i < 5; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two different shard starts produced identical draw sequences")
	}
}
