package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/storage"
)

type CLI struct {
	Version    kong.VersionFlag
	Store      string `help:"Store target: SQLite path, *.json file, :memory:, redis:// URL, postgres:// URL without password, or 'keyring'." default:"${store}"`
	Timezone   string `help:"IANA timezone used to decide what 'today' is." default:"${timezone}"`
	Debug      bool   `help:"Log debug output to stderr." default:"${debug}"`
	AutoBackup bool   `help:"Snapshot file stores before destructive commands." default:"${autobackup}" negatable:""`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitflow storage."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Add      cli.AddCmd      `cmd:"" help:"Add a new habit."`
	List     cli.ListCmd     `cmd:"" help:"List habits." default:"1"`
	Complete cli.CompleteCmd `cmd:"" help:"Mark a habit as done for a day."`
	Archive  cli.ArchiveCmd  `cmd:"" help:"Archive a habit."`
	Restore  cli.RestoreCmd  `cmd:"" help:"Restore an archived habit."`
	Remove   cli.RemoveCmd   `cmd:"" help:"Remove a habit (recorded in the activity log)."`
	Show     cli.ShowCmd     `cmd:"" help:"Show stats, level and history for a habit."`
	Level    cli.LevelCmd    `cmd:"" help:"Show the level for a points total."`

	Achievements cli.AchievementsCmd `cmd:"" help:"List achievements and which are unlocked."`
	Report       cli.ReportCmd       `cmd:"" help:"Completion counts per day, week or month."`
	Log          cli.LogCmd          `cmd:"" help:"Created and removed habits."`
	Doctor       cli.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Validate     cli.ValidateCmd     `cmd:"" help:"Check stored habits for inconsistencies."`
	DebugTools   cli.DebugCmd        `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup       cli.BackupCmd       `cmd:"" help:"Manage store backups."`
	Secret       cli.SecretCmd       `cmd:"" help:"Manage the remote store connection string in the OS keyring."`
}

// vars feeds environment configuration into flag defaults.
func vars(cfg config.Config) kong.Vars {
	return kong.Vars{
		"version":    constants.Version,
		"store":      cfg.Store,
		"timezone":   cfg.Timezone,
		"debug":      fmt.Sprint(cfg.Debug),
		"autobackup": fmt.Sprint(cfg.AutoBackup),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}

	var app CLI
	ctx := kong.Parse(&app,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, points, levels and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		vars(cfg),
	)

	configDir, err := config.ConfigDir(app.Store)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: app.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "store", app.Store, "version", constants.Version)

	var store storage.Provider
	if cli.NeedsStore(ctx.Command()) {
		store, err = storage.Open(app.Store, storage.Options{RedisPrefix: cfg.RedisPrefix})
		if err != nil {
			errors.Fatal(err)
		}
		defer store.Close()
	}

	appCtx := cli.NewContext(store, app.Timezone, os.Stdout)
	appCtx.AutoBackup = app.AutoBackup

	if err := ctx.Run(appCtx); err != nil {
		if store != nil {
			store.Close()
		}
		errors.Fatal(err)
	}
}
