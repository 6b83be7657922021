package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server"
	"github.com/lazharichir/holdem/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	var tableName string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket table server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}

			store := events.NewInMemoryEventStore()
			registry := table.NewRegistry(store, cfg.Settings(), log)
			defer registry.Shutdown()

			if tableName != "" {
				loop, err := registry.Create(tableName, cfg.Table)
				if err != nil {
					return errors.Wrapf(err, "creating table %s", tableName)
				}
				log.WithField("table_id", loop.TableID()).Info("table open")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(registry, game.NewHistory(store), cfg.Table, log)
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address, overrides server.addr")
	_ = v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	cmd.Flags().StringVar(&tableName, "table", "", "open a table with this name at startup")
	return cmd
}
