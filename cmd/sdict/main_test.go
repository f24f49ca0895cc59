package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestCLIDemoRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")

	out, err := runCLI(t, "--db", db, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "palette white = {1 1 1 1}")
	assert.Contains(t, out, "paths patrol = [{0 0 0} {10 0 0} {10 0 10}]")
	assert.Contains(t, out, "paths spawn = [{1 2 3}]")

	out, err = runCLI(t, "--db", db, "keys")
	require.NoError(t, err)
	assert.Equal(t, "palette\npaths\n", out)

	out, err = runCLI(t, "--db", db, "buckets")
	require.NoError(t, err)
	assert.Equal(t, "default\n", out)

	out, err = runCLI(t, "--db", db, "keys", "--prefix", "pal")
	require.NoError(t, err)
	assert.Equal(t, "palette\n", out)

	out, err = runCLI(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "default: docs = 2,"), out)

	out, err = runCLI(t, "--db", db, "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "palette")
	assert.Contains(t, out, "_keys_Count")
}

func TestCLIDumpJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")
	_, err := runCLI(t, "--db", db, "demo")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "dump", "--json", "palette")
	require.NoError(t, err)
	raw, ok := strings.CutPrefix(out, "palette: ")
	require.True(t, ok, out)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.EqualValues(t, 3, doc["_keys_Count"])

	out, err = runCLI(t, "--db", db, "dump", "--spew", "paths")
	require.NoError(t, err)
	assert.Contains(t, out, "fields.Set")

	_, err = runCLI(t, "--db", db, "dump", "--json", "--spew")
	assert.Error(t, err)

	_, err = runCLI(t, "--db", db, "dump", "missing")
	assert.Error(t, err)
}

func TestCLIRm(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")
	_, err := runCLI(t, "--db", db, "demo")
	require.NoError(t, err)

	_, err = runCLI(t, "--db", db, "rm")
	assert.Error(t, err)

	_, err = runCLI(t, "--db", db, "rm", "paths")
	require.NoError(t, err)
	out, err := runCLI(t, "--db", db, "keys")
	require.NoError(t, err)
	assert.Equal(t, "palette\n", out)

	_, err = runCLI(t, "--db", db, "rm", "paths")
	assert.Error(t, err)

	_, err = runCLI(t, "--db", db, "rm", "--all")
	require.NoError(t, err)
	out, err = runCLI(t, "--db", db, "buckets")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLIBucketFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SDICT_DB", filepath.Join(dir, "env.db"))
	t.Setenv("SDICT_BUCKET", "scenes")

	_, err := runCLI(t, "demo")
	require.NoError(t, err)

	out, err := runCLI(t, "buckets")
	require.NoError(t, err)
	assert.Equal(t, "scenes\n", out)

	// flags win over the environment
	out, err = runCLI(t, "-b", "other", "keys")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLIRejectsDirectoryDB(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := runCLI(t, "--db", t.TempDir(), "keys")
	assert.ErrorContains(t, err, "is a directory")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "sdict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: from-file.db\nbucket: assets\nverbose: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{DB: "from-file.db", Bucket: "assets", Verbose: true}, cfg)

	t.Setenv("SDICT_BUCKET", "overridden")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "overridden", cfg.Bucket)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	var cfg Config
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Config{DB: defaultDB, Bucket: defaultBucket}, cfg)

	cfg = Config{DB: t.TempDir()}
	assert.ErrorContains(t, cfg.Validate(), "is a directory")
}

func TestConfigApplyEnv(t *testing.T) {
	tests := []struct {
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{env: nil, want: Config{DB: "a.db"}},
		{env: map[string]string{"SDICT_DB": "b.db"}, want: Config{DB: "b.db"}},
		{env: map[string]string{"SDICT_DB": ""}, want: Config{DB: "a.db"}},
		{env: map[string]string{"SDICT_BUCKET": "x", "SDICT_VERBOSE": "1"}, want: Config{DB: "a.db", Bucket: "x", Verbose: true}},
		{env: map[string]string{"SDICT_VERBOSE": "maybe"}, wantErr: true},
	}
	for _, tt := range tests {
		cfg := Config{DB: "a.db"}
		err := cfg.applyEnv(func(k string) (string, bool) {
			v, ok := tt.env[k]
			return v, ok
		})
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.env)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, cfg, "%v", tt.env)
	}
}
