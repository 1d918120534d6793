package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/bulldoggy/internal/config"
	"github.com/eleven-am/bulldoggy/internal/reminders"
	"github.com/eleven-am/bulldoggy/pkg/bulldoggy"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeConfig saves a sqlite-backed config into a temp dir.
func writeConfig(t *testing.T) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	cfg.SecretKey = "cli-test-secret"
	cfg.Users = map[string]string{"alice": "wonderland", "bob": "builder"}
	cfg.Database.URL = filepath.Join(dir, "reminders.sqlite")
	cfg.Log.Level = "error"

	path := filepath.Join(dir, "bulldoggy.yaml")
	require.NoError(t, config.Save(cfg, path))
	return path, cfg
}

func TestNewRootCommand(t *testing.T) {
	t.Run("creates root command", func(t *testing.T) {
		cmd := NewRootCommand()
		assert.Equal(t, "bulldoggy", cmd.Use)
		assert.Equal(t, bulldoggy.Version, cmd.Version)
	})

	t.Run("has expected subcommands", func(t *testing.T) {
		cmd := NewRootCommand()
		for _, name := range []string{"serve", "init", "migrate", "reset", "version"} {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, name)
			assert.Equal(t, name, sub.Name())
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		cmd := NewRootCommand()
		for _, name := range []string{"config", "debug", "verbose"} {
			assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
		}
	})
}

func TestVersionCommand(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Bulldoggy "+bulldoggy.Version)
}

func TestVerboseConfigWarning(t *testing.T) {
	chdir(t, t.TempDir())

	_, stderr, err := execute(t, "--verbose", "--config", "missing.yaml", "version")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: Failed to load config file")
}

func TestInitCommand(t *testing.T) {
	t.Run("writes a valid config", func(t *testing.T) {
		chdir(t, t.TempDir())

		stdout, _, err := execute(t, "init", "--user", "alice:wonderland", "--user", "bob:builder")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Created bulldoggy.yaml")

		cfg, err := config.Load(defaultConfigPath)
		require.NoError(t, err)
		assert.Len(t, cfg.SecretKey, 64)
		assert.Equal(t, map[string]string{"alice": "wonderland", "bob": "builder"}, cfg.Users)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "reminder_db.sqlite", cfg.Database.URL)

		info, err := os.Stat(defaultConfigPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, _, err := execute(t, "init")
		require.NoError(t, err)
		first, err := config.Load(defaultConfigPath)
		require.NoError(t, err)

		_, _, err = execute(t, "init")
		assert.ErrorContains(t, err, "already exists")

		_, _, err = execute(t, "init", "--force")
		require.NoError(t, err)
		second, err := config.Load(defaultConfigPath)
		require.NoError(t, err)
		assert.NotEqual(t, first.SecretKey, second.SecretKey)
	})

	t.Run("generates an admin user", func(t *testing.T) {
		chdir(t, t.TempDir())

		stdout, _, err := execute(t, "init")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Created user admin with password")

		cfg, err := config.Load(defaultConfigPath)
		require.NoError(t, err)
		assert.Len(t, cfg.Users["admin"], 16)
	})

	t.Run("custom path", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		path := filepath.Join(dir, "conf", "app.yaml")

		_, _, err := execute(t, "--config", path, "init", "--user", "alice:x")
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("invalid input", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, _, err := execute(t, "init", "--user", "nocolon")
		assert.ErrorContains(t, err, "expected name:password")

		_, _, err = execute(t, "init", "--driver", "postgres")
		assert.ErrorContains(t, err, "database.url")

		_, _, err = execute(t, "init", "--driver", "oracle", "--database-url", "x")
		assert.ErrorContains(t, err, "unsupported driver")
	})
}

func TestParseUsers(t *testing.T) {
	users, err := parseUsers([]string{"a:1", "b:with:colon"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "with:colon"}, users)

	for _, bad := range []string{"", ":pw", "name:", " :pw"} {
		_, err := parseUsers([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestMigrateCommand(t *testing.T) {
	path, cfg := writeConfig(t)

	stdout, _, err := execute(t, "--config", path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Schema is up to date (sqlite)")

	_, err = os.Stat(cfg.Database.URL)
	assert.NoError(t, err)

	_, _, err = execute(t, "--config", path, "migrate")
	require.NoError(t, err)
}

func TestCommandsNeedConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(config.EnvConfigPath, "")

	for _, args := range [][]string{{"migrate"}, {"reset", "--user", "alice"}, {"serve"}} {
		_, _, err := execute(t, args...)
		assert.ErrorContains(t, err, "no configuration file found", args[0])
	}
}

func TestResetCommand(t *testing.T) {
	path, cfg := writeConfig(t)
	ctx := context.Background()

	db, err := openDatabase(ctx, cfg)
	require.NoError(t, err)
	store := reminders.NewStore(db)

	alice := store.For("alice")
	for _, name := range []string{"Chores", "Groceries"} {
		id, err := alice.CreateList(ctx, name)
		require.NoError(t, err)
		_, err = alice.AddItem(ctx, id, "something")
		require.NoError(t, err)
		require.NoError(t, alice.SetSelectedList(ctx, &id))
	}
	_, err = store.For("bob").CreateList(ctx, "Tools")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	stdout, _, err := execute(t, "--config", path, "reset", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted 2 list(s) for alice")

	db, err = openDatabase(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()
	store = reminders.NewStore(db)

	lists, err := store.For("alice").GetLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
	selected, err := store.For("alice").GetSelectedListID(ctx)
	require.NoError(t, err)
	assert.Nil(t, selected)

	lists, err = store.For("bob").GetLists(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	t.Run("user flag is required", func(t *testing.T) {
		_, _, err := execute(t, "--config", path, "reset")
		assert.ErrorContains(t, err, `required flag(s) "user" not set`)
	})
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeReportsListenErrors(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}
	err := serve(context.Background(), srv)
	assert.Error(t, err)
}
