package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eleven-am/bulldoggy/internal/config"
	"github.com/eleven-am/bulldoggy/internal/database"
)

const defaultConfigPath = "bulldoggy.yaml"

var (
	initForce       bool
	initUsers       []string
	initDriver      string
	initDatabaseURL string
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new Bulldoggy configuration file",
		Long: `Creates a bulldoggy.yaml configuration file with a freshly generated
secret key. Users are given as --user name:password and may be repeated; when
none are given an "admin" user with a random password is created.`,
		RunE: runInit,
	}

	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration file")
	cmd.Flags().StringArrayVar(&initUsers, "user", nil, "User as name:password (repeatable)")
	cmd.Flags().StringVar(&initDriver, "driver", database.DriverSQLite, "Database driver (sqlite, postgres)")
	cmd.Flags().StringVar(&initDatabaseURL, "database-url", "", "Database file path or connection URL")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	cfg, err := config.Parse(nil)
	if err != nil {
		return err
	}

	if cfg.SecretKey, err = randomHex(32); err != nil {
		return fmt.Errorf("failed to generate secret key: %w", err)
	}

	out := cmd.OutOrStdout()
	cfg.Users, err = parseUsers(initUsers)
	if err != nil {
		return err
	}
	if len(cfg.Users) == 0 {
		password, err := randomHex(8)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
		cfg.Users = map[string]string{"admin": password}
		fmt.Fprintf(out, "Created user admin with password %s\n", password)
	}

	cfg.Database.Driver = initDriver
	if initDatabaseURL != "" {
		cfg.Database.URL = initDatabaseURL
	} else if initDriver != database.DriverSQLite {
		cfg.Database.URL = ""
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "Created %s configuration file\n", configPath)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "1. Review the users and database settings in %s\n", configPath)
	fmt.Fprintf(out, "2. Run 'bulldoggy migrate' to create the tables\n")
	fmt.Fprintf(out, "3. Run 'bulldoggy serve' and open http://localhost%s\n", cfg.Server.Address)

	return nil
}

func parseUsers(entries []string) (map[string]string, error) {
	users := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, password, ok := strings.Cut(entry, ":")
		if !ok || strings.TrimSpace(name) == "" || password == "" {
			return nil, fmt.Errorf("invalid --user %q, expected name:password", entry)
		}
		users[name] = password
	}
	return users, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
