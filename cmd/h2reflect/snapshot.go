package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/h2go/h2reflect/internal/filestore/minio"
	"github.com/h2go/h2reflect/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Archive and compare schema snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Reflect the schema and archive it in object storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, arch, cleanup, err := newArchiver(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		info, err := eng.inspector.ReflectSchema(ctx, flagSchema)
		if err != nil {
			return err
		}

		obj, err := arch.Save(ctx, info)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s (%d tables, %d bytes)\n", obj.Key, len(info.Tables), obj.Size)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the archived snapshots of a schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, arch, cleanup, err := newArchiver(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		objs, err := arch.List(ctx, eng.inspector.ResolveSchema(flagSchema))
		if err != nil {
			return err
		}
		for _, obj := range objs {
			fmt.Printf("%s\t%d\n", obj.Key, obj.Size)
		}
		return nil
	},
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the live schema against the latest snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, arch, cleanup, err := newArchiver(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		live, err := eng.inspector.ReflectSchema(ctx, flagSchema)
		if err != nil {
			return err
		}

		archived, err := arch.Latest(ctx, live.Schema)
		if err != nil {
			return err
		}
		if archived == nil {
			return fmt.Errorf("no snapshot of %s to compare against", live.Schema)
		}

		drift := snapshot.Compare(archived, live)
		if drift.Empty() {
			fmt.Println("no drift")
			return nil
		}
		for _, name := range drift.Added {
			fmt.Printf("added\t%s\n", name)
		}
		for _, name := range drift.Removed {
			fmt.Printf("removed\t%s\n", name)
		}
		for _, name := range drift.Changed {
			fmt.Printf("changed\t%s\n", name)
		}
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDiffCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// newArchiver builds the engine plus the object-storage archiver.
func newArchiver(ctx context.Context) (*engine, *snapshot.Archiver, func(), error) {
	eng, err := newEngine(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	if !eng.cfg.Snapshot.Enabled() {
		eng.close()
		return nil, nil, nil, fmt.Errorf("snapshot storage is not configured (set snapshot.endpoint)")
	}

	store, err := minio.New(ctx, eng.cfg.SnapshotSettings())
	if err != nil {
		eng.close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		store.Close()
		eng.close()
	}
	return eng, snapshot.NewArchiver(store, eng.cfg.Snapshot.Bucket), cleanup, nil
}
