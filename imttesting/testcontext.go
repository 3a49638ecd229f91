package imttesting

import (
	"hash"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datatrails/go-datatrails-imt/imt"
)

type TestContext struct {
	T   *testing.T
	Log *zap.SugaredLogger
	Rng *rand.Rand
}

type TestConfig struct {
	// Seed fixes the RNG so the generated leaves are the same from run to
	// run. Vary it only when a test deliberately wants fresh data.
	Seed            int64
	TestLabelPrefix string
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	log, err := zap.NewDevelopment()
	require.NoError(t, err)

	return TestContext{
		T:   t,
		Log: log.Sugar().Named(cfg.TestLabelPrefix),
		Rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// GenerateLeaf produces a leaf value by hashing a uuid drawn from the
// seeded rng, mimicking how the production path hashes event identities
// into leaves.
func (c *TestContext) GenerateLeaf(hasher hash.Hash) imt.Hash {
	id, err := uuid.NewRandomFromReader(c.Rng)
	require.NoError(c.T, err)

	hasher.Reset()
	hasher.Write(id[:])

	var leaf imt.Hash
	copy(leaf[:], hasher.Sum(leaf[:0]))
	return leaf
}

func (c *TestContext) GenerateLeaves(hasher hash.Hash, n int) []imt.Hash {
	leaves := make([]imt.Hash, 0, n)
	for i := 0; i < n; i++ {
		leaves = append(leaves, c.GenerateLeaf(hasher))
	}
	return leaves
}
