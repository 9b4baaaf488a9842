package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	apiClient    *client.Client
)

var errNotLoggedIn = errors.New("not authenticated. Run 'flowvera auth login' first")

// Commands declare how much of the API client they need through the
// access annotation. Unannotated commands inherit from their parent and
// default to accessToken.
const (
	accessKey     = "flowvera.access"
	accessOffline = "offline" // no client at all
	accessPublic  = "public"  // client without a token
	accessToken   = "token"   // client with the stored token
)

func withAccess(cmd *cobra.Command, level string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[accessKey] = level
	return cmd
}

func accessOf(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if level, ok := c.Annotations[accessKey]; ok {
			return level
		}
	}
	return accessToken
}

var rootCmd = &cobra.Command{
	Use:   "flowvera",
	Short: "Flowvera CLI - projects, CRM and billing from the terminal",
	Long: `Manage a Flowvera workspace from the terminal: projects and tasks,
contacts and companies, and the account subscription.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.HasParent() {
			return nil
		}
		switch accessOf(cmd) {
		case accessOffline:
			return nil
		case accessPublic:
			apiClient = newAPIClient()
			return nil
		default:
			token := viper.GetString("auth.token")
			if token == "" {
				return errNotLoggedIn
			}
			apiClient = newAPIClient()
			apiClient.SetToken(token)
			return nil
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.flowvera/config.yaml)")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	flags.StringVar(&serverURL, "server", "", "server URL (overrides config)")
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("server_url", flags.Lookup("server"))

	rootCmd.AddCommand(
		newAuthCmd(),
		withAccess(newConfigCmd(), accessOffline),
		withAccess(newStatusCmd(), accessPublic),
		newProjectCmd(),
		newTaskCmd(),
		newContactCmd(),
		newCompanyCmd(),
		newSubscriptionCmd(),
		newBillingCmd(),
		newAdminCmd(),
	)
}

// loadConfig reads ~/.flowvera/config.yaml (or --config). FLOWVERA_*
// variables override file values, e.g. FLOWVERA_AUTH_TOKEN for auth.token.
func loadConfig() {
	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("output", "table")
	viper.SetEnvPrefix("FLOWVERA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(dir, 0o700)
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	_ = viper.ReadInConfig()
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".flowvera"), nil
}

func newAPIClient() *client.Client {
	base := serverURL
	if base == "" {
		base = viper.GetString("server_url")
	}
	return client.NewClient(client.Config{BaseURL: base})
}

// getOutputFormat lets an explicit -o win over the configured default.
func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
