package cli

import (
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	StorePath DebugStorePathCmd `cmd:"" help:"Show the store location."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump one habit as JSON."`
	DumpKey   DebugDumpKeyCmd   `cmd:"" help:"Dump a raw store key as JSON (habits, unlockedAchievements, historyLog)."`
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *Context) error {
	if ctx.Store == nil {
		return fmt.Errorf("no store configured")
	}
	// Output in machine-readable format
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	h, err := ctx.Tracker.Resolve(cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

type DebugDumpKeyCmd struct {
	Key string `arg:"" help:"Store key." enum:"habits,unlockedAchievements,historyLog"`
}

func (cmd *DebugDumpKeyCmd) Run(ctx *Context) error {
	// Raw access: skip the tracker so that inconsistent data can be inspected
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	value, found, err := ctx.Store.Get(cmd.Key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("key %q has not been written yet", cmd.Key)
	}

	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return fmt.Errorf("key %q does not hold valid JSON: %w", cmd.Key, err)
	}
	return printJSON(ctx, v)
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Printf("%s\n", jsonBytes)
	return nil
}
