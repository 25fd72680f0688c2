package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agridesk/consentd/common"
	"github.com/agridesk/consentd/portal/api/http_api"
	"github.com/agridesk/consentd/portal/config"
	"github.com/agridesk/consentd/portal/modules/auth"
	"github.com/agridesk/consentd/portal/modules/state"
	apprepo "github.com/agridesk/consentd/portal/repositories/application"
	"github.com/agridesk/consentd/portal/services"
)

const (
	flagConfigPath   = "config"
	flagListenHost   = "host"
	flagListenPort   = "port"
	flagStateDBDSN   = "state_dbdsn"
	flagTemplatesDir = "templates_dir"
	flagJWTSecret    = "jwt_secret"
)

func init() {
	rootCmd.PersistentFlags().String(flagConfigPath, "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String(flagListenHost, "localhost", "Listen host")
	rootCmd.PersistentFlags().Int(flagListenPort, 8080, "Listen port")
	rootCmd.PersistentFlags().String(flagStateDBDSN, "./consentd_state", "State DBDSN")
	rootCmd.PersistentFlags().String(flagTemplatesDir, "./templates", "Consent template directory")
	rootCmd.PersistentFlags().String(flagJWTSecret, "", "Secret for signing session tokens")
}

var rootCmd = &cobra.Command{
	Use:   "consentd",
	Short: "grant application consent workflow daemon",
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// flags override the file when set explicitly
	if cmd.Flags().Changed(flagListenHost) {
		cfg.HttpApiConfig.Host, _ = cmd.Flags().GetString(flagListenHost)
	}
	if cmd.Flags().Changed(flagListenPort) {
		cfg.HttpApiConfig.Port, _ = cmd.Flags().GetInt(flagListenPort)
	}
	if cmd.Flags().Changed(flagStateDBDSN) {
		cfg.StateDBDSN, _ = cmd.Flags().GetString(flagStateDBDSN)
	}
	if cmd.Flags().Changed(flagTemplatesDir) {
		cfg.TemplatesDir, _ = cmd.Flags().GetString(flagTemplatesDir)
	}
	if cmd.Flags().Changed(flagJWTSecret) {
		cfg.JWTSecret, _ = cmd.Flags().GetString(flagJWTSecret)
	}

	return cfg, nil
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts the consentd daemon",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}
			if cfg.JWTSecret == "" {
				log.Fatalf("jwt_secret must be set (flag or config file)")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			logger := common.NewLogger("consentd")

			sp, err := services.InitServices(ctx, cfg, logger)
			if err != nil {
				log.Fatalf("Failed to init services: %v", err)
			}

			server := &http_api.RESTApiProvider{}
			if err := server.NewServer(cfg, sp, logger); err != nil {
				log.Fatalf("Failed to init HTTP server: %v", err)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs

				log.Println("Received signal, stopping consentd...")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				if err := server.Stop(shutdownCtx); err != nil {
					log.Printf("failed to stop HTTP server: %v", err)
				}
				if err := sp.Close(); err != nil {
					log.Printf("failed to close services: %v", err)
				}
				cancel()
			}()

			color.Green("consentd listening on %s:%d", cfg.HttpApiConfig.Host, cfg.HttpApiConfig.Port)
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTP server error: %v", err)
			}
			log.Println("consentd stopped, exiting")
		},
	}
}

func createUserCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create_user [email] [password] [role]",
		Short: "creates a portal user (run while the daemon is stopped)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			role := auth.RoleApplicant
			if len(args) == 3 {
				role = args[2]
			}

			stg, err := state.NewLevelDBState(cfg.StateDBDSN)
			if err != nil {
				return fmt.Errorf("failed to init state: %w", err)
			}
			defer stg.Close()

			user, err := auth.NewUserStore(stg).Create(args[0], args[1], role)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			color.Green("user %s created with role %s", user.Email, user.Role)
			return nil
		},
	}
}

func createApplicationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create_application [applicant]",
		Short: "seeds a grant application record (run while the daemon is stopped)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			stg, err := state.NewLevelDBState(cfg.StateDBDSN)
			if err != nil {
				return fmt.Errorf("failed to init state: %w", err)
			}
			defer stg.Close()

			app, err := apprepo.NewApplicationRepo(stg).Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}

			color.Green("application %s created for %s", app.ID, app.Applicant)
			return nil
		},
	}
}

func main() {
	rootCmd.AddCommand(
		startCommand(),
		createUserCommand(),
		createApplicationCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}
