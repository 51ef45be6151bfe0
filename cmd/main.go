package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/usamayaqoob8177888763/retail-backoffice/alert"
	"github.com/usamayaqoob8177888763/retail-backoffice/config"
	"github.com/usamayaqoob8177888763/retail-backoffice/handlers"
	"github.com/usamayaqoob8177888763/retail-backoffice/kafka"
	"github.com/usamayaqoob8177888763/retail-backoffice/service/billing"
	"github.com/usamayaqoob8177888763/retail-backoffice/service/inventory"
)

const versionTimeFormat = "20060102150405"

func main() {
	rootCmd := &cobra.Command{Use: "backoffice"}
	rootCmd.AddCommand(
		createMigrationCommand(),
		migrateCommand(),
		serveCommand(),
		relayAlertsCommand(),
		watchAlertsCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		panic(err)
	}
}

func createMigrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-create [name]",
		Short: "create sql migrations",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			now := time.Now()
			version := now.Format(versionTimeFormat)
			name := args[0]
			migrationDir := config.DefaultConfig.MigrationDir
			up := fmt.Sprintf("%s/%s_%s.up.sql", migrationDir, version, name)
			down := fmt.Sprintf("%s/%s_%s.down.sql", migrationDir, version, name)

			err := os.WriteFile(up, []byte{}, 0644)
			if err != nil {
				panic(err)
			}

			err = os.WriteFile(down, []byte{}, 0644)
			if err != nil {
				panic(err)
			}

			fmt.Println("Created SQL up script:", up)
			fmt.Println("Created SQL down script:", down)
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-up",
		Short: "migrate all the way up",
		Run: func(cmd *cobra.Command, args []string) {
			conf := config.DefaultConfig
			m, err := migrate.New(
				fmt.Sprintf("file://%s", conf.MigrationDir),
				fmt.Sprintf("mysql://%s", conf.DatabaseDSN),
			)
			if err != nil {
				panic(err)
			}

			err = m.Up()
			if err == migrate.ErrNoChange {
				fmt.Println("No change in migration")
				return
			}
			if err != nil {
				panic(err)
			}
			fmt.Println("Migrated up")
		},
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the back-office HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			conf := config.DefaultConfig
			db := mustConnect(conf)

			inventorySvc := inventory.NewService(inventory.NewRepo(db))
			billingSvc := billing.NewService(billing.NewRepo(db), nil, engineOptions(conf))

			r := handlers.NewRouter(inventorySvc, billingSvc)
			log.Printf("Listening on %s", conf.HTTPAddr)
			err := r.Run(conf.HTTPAddr)
			if err != nil {
				panic(err)
			}
		},
	}
}

func relayAlertsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "relay-alerts",
		Short: "relay pending low-stock alerts to kafka",
		Run: func(cmd *cobra.Command, args []string) {
			conf := config.DefaultConfig
			db := mustConnect(conf)

			producer, err := kafka.NewProducer(conf.KafkaHost, conf.LowStockTopic)
			if err != nil {
				panic(err)
			}
			defer producer.Close()

			billingSvc := billing.NewService(billing.NewRepo(db), producer, engineOptions(conf))

			ctx := context.Background()
			for {
				err := billingSvc.RelayLowStockAlerts(ctx, 100)
				if err != nil {
					log.Printf("Failed to relay alerts: %s", err)
				}
				time.Sleep(time.Second)
			}
		},
	}
}

func watchAlertsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch-alerts",
		Short: "print low-stock alerts as they arrive",
		Run: func(cmd *cobra.Command, args []string) {
			conf := config.DefaultConfig
			consumer, err := kafka.NewConsumer(conf.KafkaHost, conf.LowStockTopic)
			if err != nil {
				panic(err)
			}

			for {
				select {
				case msg := <-consumer.Messages():
					var event alert.LowStockEvent
					err := json.Unmarshal(msg.Value, &event)
					if err != nil {
						log.Printf("Failed to decode alert: %s", err)
						continue
					}
					log.Printf("LOW STOCK: %s (#%d) down to %d, minimum %d",
						event.ProductName, event.ProductID, event.Quantity, event.MinimumStock)
				case err := <-consumer.Errors():
					log.Printf("Failed to consume message: %s", err)
				}
			}
		},
	}
}

func mustConnect(conf config.Config) *sqlx.DB {
	db, err := sqlx.Connect("mysql", conf.DatabaseDSN)
	if err != nil {
		panic(err)
	}
	return db
}

func engineOptions(conf config.Config) billing.Options {
	policy := billing.RejectNegativeTotal
	if conf.Engine.NegativeTotalPolicy == "clamp" {
		policy = billing.ClampNegativeTotal
	}
	return billing.Options{
		NegativeTotalPolicy: policy,
		ConflictRetries:     conf.Engine.ConflictRetries,
	}
}
