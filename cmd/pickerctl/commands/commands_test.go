package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/picker-payroll/internal/middleware"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

type countingCache struct {
	keys []string
}

func (c *countingCache) Incr(_ context.Context, key string) *redis.IntCmd {
	c.keys = append(c.keys, key)
	return redis.NewIntResult(int64(len(c.keys)), nil)
}

func fakeCache(t *testing.T, err error) *countingCache {
	t.Helper()
	cache := &countingCache{}
	prev := connectCache
	connectCache = func(context.Context) (middleware.Incrementer, func(), error) {
		if err != nil {
			return nil, nil, err
		}
		return cache, func() {}, nil
	}
	t.Cleanup(func() { connectCache = prev })
	return cache
}

func TestWorkflow(t *testing.T) {
	t.Setenv("BIN_RATE_DEFAULT", "")
	fakeCache(t, errors.New("connection refused"))
	dir := t.TempDir()
	db := "--db=sqlite://" + filepath.Join(dir, "payroll.db")

	assert.Contains(t, run(t, "schema", db), "schema up to date (sqlite)")

	out := run(t, "seed", db, "--reset", "--season", "2024-03-04")
	assert.Contains(t, out, "pick_records")
	assert.Contains(t, out, "35")

	assert.Equal(t, "Gala: 48.00 (apple_price)\n", run(t, "bin-rate", db, "Gala"))
	assert.Equal(t, "Braeburn: 50.00 (orchard_block)\n", run(t, "bin-rate", db, "Braeburn"))
	assert.Equal(t, "Envy: 45.00 (default)\n", run(t, "bin-rate", db, "Envy"))

	xlsx := filepath.Join(dir, "out.xlsx")
	assert.Contains(t, run(t, "earnings", "export", db, "--sort", "picker", "--out", xlsx), "wrote 5 pickers")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Earnings")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "Aroha Ngata", rows[1][1])

	_, err = os.Stat(xlsx)
	assert.NoError(t, err)
}

func TestSeedInvalidatesCache(t *testing.T) {
	t.Setenv("CACHE_PREFIX", "payroll-test")
	cache := fakeCache(t, nil)
	db := "--db=sqlite://" + filepath.Join(t.TempDir(), "payroll.db")

	run(t, "seed", db, "--season", "2024-03-04")
	assert.Equal(t, []string{"payroll-test:generation"}, cache.keys)

	t.Setenv("CACHE_ENABLED", "false")
	run(t, "seed", db, "--reset", "--season", "2024-03-04")
	assert.Len(t, cache.keys, 1)
}

func TestSchemaPrint(t *testing.T) {
	out := run(t, "schema", "--print", "--db=mysql://u:p@localhost/payroll")
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS pick_records")
	assert.Contains(t, out, "DECIMAL(10,2)")
	printOnly = false
}
