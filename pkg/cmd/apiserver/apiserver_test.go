package apiserver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opamp-commander/opamp-commander/pkg/cmd/apiserver"
)

// TestCommand_FlagDefaults checks the defaults NewCommand registers for the
// address, database.dsn, log.level and log.format flags. A full boot needs
// a live Postgres instance and is not covered by these unit tests.
func TestCommand_FlagDefaults(t *testing.T) {
	t.Parallel()

	opt := apiserver.CommandOption{} //nolint:exhaustruct
	cmd := apiserver.NewCommand(opt)

	addr, err := cmd.Flags().GetString("address")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	dsn, err := cmd.Flags().GetString("database.dsn")
	require.NoError(t, err)
	assert.NotEmpty(t, dsn)

	logLevel, err := cmd.Flags().GetString("log.level")
	require.NoError(t, err)
	assert.Equal(t, "info", logLevel)

	logFormat, err := cmd.Flags().GetString("log.format")
	require.NoError(t, err)
	assert.Equal(t, "json", logFormat)
}

// TestCommand_Prepare checks that Prepare builds an *app.Server from
// already-populated options without starting it (starting requires a
// reachable Postgres instance).
func TestCommand_Prepare(t *testing.T) {
	t.Parallel()

	opt := apiserver.CommandOption{ //nolint:exhaustruct
		Address: ":0",
	}
	opt.Database.DSN = "postgres://localhost:5432/opampcommander_test"
	opt.Log.Level = "debug"
	opt.Log.Format = "text"
	opt.Observability.ServiceName = "opampcommander-test"

	require.NoError(t, opt.Prepare(nil, nil))
}
