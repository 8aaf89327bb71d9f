package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nativerollup/bridge/cmd/admin/internal/bpstatus"
	"github.com/nativerollup/bridge/cmd/admin/internal/stcadmin"
	"github.com/nativerollup/bridge/internal/opslog"
)

var (
	stcAdminURL   string
	jwtToken      string
	bpURL         string
	roundID       string
	unregisterKey string
	listResponses bool
	checkStatus   bool
	envFile       string
	logJSON       bool
	logDebug      bool
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operate a running STC/BP deployment",
	Long:  `An operator CLI for admin-gated unregistration, state inspection, and status polling against a live STC/BP deployment.`,
	RunE:  runAdmin,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVar(&stcAdminURL, "stc-admin-url", "", "STC admin HTTP surface base URL (required for --unregister/--list-responses)")
	rootCmd.Flags().StringVar(&jwtToken, "jwt", "", "JWT token authorizing --unregister")
	rootCmd.Flags().StringVar(&bpURL, "bp-url", "", "BP HTTP surface base URL (required for --status)")
	rootCmd.Flags().StringVar(&roundID, "round-id", "", "Round ID to query with --status")
	rootCmd.Flags().StringVar(&unregisterKey, "unregister", "", "Response key to forcibly unregister (hex)")
	rootCmd.Flags().BoolVar(&listResponses, "list-responses", false, "List STC's registered responses")
	rootCmd.Flags().BoolVar(&checkStatus, "status", false, "Query BP's status for --round-id")
	rootCmd.Flags().StringVar(&envFile, "env", ".env", "Environment file path")
	rootCmd.Flags().BoolVar(&logJSON, "log.json", false, "Output logs in JSON format via internal/opslog instead of zap")
	rootCmd.Flags().BoolVar(&logDebug, "log.debug", false, "Enable debug logging")
}

func initConfig() {
	if envFile != "" {
		viper.SetConfigFile(envFile)
		viper.SetConfigType("env")
		_ = viper.ReadInConfig()
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if jwtToken == "" {
		jwtToken = viper.GetString("ADMIN_JWT_TOKEN")
	}
}

func runAdmin(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logJSON, logDebug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()
	ctx := context.Background()

	if unregisterKey == "" && !listResponses && !checkStatus {
		return fmt.Errorf("at least one of --unregister, --list-responses or --status must be specified")
	}

	result := map[string]interface{}{}

	if unregisterKey != "" {
		if stcAdminURL == "" {
			return fmt.Errorf("--stc-admin-url is required for --unregister")
		}
		log.Infow("unregistering response", "key", unregisterKey)
		client := stcadmin.NewClient(stcAdminURL, jwtToken)
		found, err := client.Unregister(ctx, unregisterKey)
		if err != nil {
			return fmt.Errorf("failed to unregister: %w", err)
		}
		result["unregistered"] = found
	}

	if listResponses {
		if stcAdminURL == "" {
			return fmt.Errorf("--stc-admin-url is required for --list-responses")
		}
		log.Infow("listing registered responses")
		client := stcadmin.NewClient(stcAdminURL, jwtToken)
		page, err := client.ListResponses(ctx, 1, 50)
		if err != nil {
			return fmt.Errorf("failed to list responses: %w", err)
		}
		result["responses"] = json.RawMessage(page)
	}

	if checkStatus {
		if bpURL == "" || roundID == "" {
			return fmt.Errorf("--bp-url and --round-id are required for --status")
		}
		log.Infow("querying bp status", "roundId", roundID)
		client := bpstatus.NewClient(bpURL)
		status, err := client.Status(ctx, roundID)
		if err != nil {
			return fmt.Errorf("failed to query status: %w", err)
		}
		result["status"] = status
	}

	result["success"] = true
	resultJSON, _ := json.Marshal(result)
	fmt.Fprintln(os.Stderr, string(resultJSON))

	return nil
}

// sugaredLogger is the narrow surface runAdmin needs, satisfied by
// either *zap.SugaredLogger or *opslog.Logger depending on --log.json.
type sugaredLogger interface {
	Infow(msg string, keysAndValues ...interface{})
	Sync() error
}

func newLogger(jsonOutput bool, debug bool) (sugaredLogger, error) {
	if jsonOutput {
		return opslog.NewJSONLogger(), nil
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
