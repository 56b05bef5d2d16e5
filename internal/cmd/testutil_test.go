package cmd

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/sampleapi/profile-cli/internal/config"
	"github.com/sampleapi/profile-cli/internal/iocontext"
)

// setupTestEnv clears PROFILES_* variables so tests only see what they set.
func setupTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvBackend,
		config.EnvBaseURL,
		config.EnvRedisURL,
		config.EnvTimeout,
		config.EnvOutput,
		config.EnvDebug,
		config.EnvEnvFile,
	} {
		t.Setenv(key, "")
	}
}

// setupRedis starts a miniredis server and points the CLI at it.
func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv(config.EnvBackend, config.BackendRedis)
	t.Setenv(config.EnvRedisURL, "redis://"+mr.Addr())
	return mr
}

// runCLI executes the CLI with in-memory streams.
func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	streams, out, errOut := iocontext.Buffered(stdin)
	err = Execute(iocontext.WithIO(context.Background(), streams), args)
	return out.String(), errOut.String(), err
}
