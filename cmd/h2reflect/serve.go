package main

import (
	"github.com/spf13/cobra"

	"github.com/h2go/h2reflect/internal/filestore/minio"
	"github.com/h2go/h2reflect/internal/server"
	"github.com/h2go/h2reflect/internal/snapshot"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reflection API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.close()

		var archiver *snapshot.Archiver
		if eng.cfg.Snapshot.Enabled() {
			store, err := minio.New(ctx, eng.cfg.SnapshotSettings())
			if err != nil {
				return err
			}
			defer store.Close()
			archiver = snapshot.NewArchiver(store, eng.cfg.Snapshot.Bucket)
		}

		srv := server.New(server.Config{
			Addr:            eng.cfg.Server.Addr,
			ReadTimeout:     eng.cfg.Server.ReadTimeout,
			WriteTimeout:    eng.cfg.Server.WriteTimeout,
			ShutdownTimeout: eng.cfg.Server.ShutdownTimeout,
		}, eng.conn, eng.inspector, archiver, eng.log)

		return srv.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
