package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/keyring"
	"github.com/julianstephens/habitflow/internal/storage"
)

type SecretCmd struct {
	Set    SecretSetCmd    `cmd:"" help:"Store a PostgreSQL or Redis connection string in the OS keyring."`
	Show   SecretShowCmd   `cmd:"" help:"Show the stored connection string with the password hidden."`
	Delete SecretDeleteCmd `cmd:"" help:"Remove the stored connection string."`
}

// SecretSetCmd stores store credentials in the OS keyring
type SecretSetCmd struct {
	ConnectionString string `arg:"" help:"postgres://, postgresql://, redis:// or rediss:// URL."`
}

func (cmd *SecretSetCmd) Run(ctx *Context) error {
	if storage.HasEmbeddedCredentials(cmd.ConnectionString) {
		ctx.Printf("Note: the connection string contains a password; it is kept only in the OS keyring.\n")
	}
	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}

	ctx.Printf("✓ Connection string stored in OS keyring\n")
	ctx.Printf("  Use it with --store %s or %sSTORE=%s\n", storage.KeyringTarget, config.EnvPrefix, storage.KeyringTarget)
	return nil
}

type SecretShowCmd struct{}

func (cmd *SecretShowCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no connection string found in keyring. Use '%s secret set' to store one", constants.AppName)
		}
		return err
	}
	ctx.Printf("%s\n", keyring.Redact(connStr))
	return nil
}

// SecretDeleteCmd removes store credentials from the OS keyring
type SecretDeleteCmd struct{}

func (cmd *SecretDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Printf("✓ Connection string removed from OS keyring\n")
	return nil
}
