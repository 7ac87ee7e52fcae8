package cmd

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSeedFlags(t *testing.T, args ...string) *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Int64("seed", 0, "seed")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestSeedFlag(t *testing.T) {
	assert.Equal(t, int64(27), SeedFlag(parseSeedFlags(t), "seed", 27))
	assert.Equal(t, int64(5), SeedFlag(parseSeedFlags(t, "-seed", "5"), "seed", 27))
	assert.Equal(t, int64(0), SeedFlag(parseSeedFlags(t, "-seed", "0"), "seed", 27))
}
