// Package commands implements the xmrest command-line interface.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/xmrest/internal/config"
	"github.com/fivetwenty-io/xmrest/internal/logging"
	"github.com/fivetwenty-io/xmrest/pkg/xmclient"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app carries state shared by the commands of one root command.
type app struct {
	viper      *viper.Viper
	config     *config.Config
	logger     *logging.Logger
	readSecret func() (string, error)
}

// NewRootCommand builds the command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(info, &app{
		viper:      viper.New(),
		readSecret: readSecretFromTerminal,
	})
}

func newRootCommand(info BuildInfo, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xmrest",
		Short: "Typed CRUD client for resource-oriented HTTP+JSON backends",
		Long: `A command-line interface for reading and writing the resources of an
HTTP+JSON backend laid out as {base}/api/v{n}/{resource}/{id}.

Items are treated as schemaless JSON objects identified by their "id" field.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.xmrest/config.yml)")
	flags.StringP("api", "a", "", "backend base URL")
	flags.Int("api-version", xmrest.DefaultAPIVersion, "API version, -1 omits the version segment")
	flags.StringP("token", "t", "", "bearer token sent in the auth header")
	flags.String("auth-header", "", "name of the auth header")
	flags.Bool("ask-token", false, "prompt for the auth header value")
	flags.String("output", "table", "output format (table, json, yaml)")
	flags.Duration("timeout", 0, "per-request timeout (default 20s)")
	flags.Int("retries", 0, "retries for connection errors, 429 and 5xx")
	flags.BoolP("verbose", "v", false, "log HTTP traffic")
	flags.Bool("no-color", false, "disable colored log output")

	bindings := map[string]string{
		config.KeyBaseURL:        "api",
		config.KeyAPIVersion:     "api-version",
		config.KeyAuthHeaderName: "auth-header",
		config.KeyOutput:         "output",
		config.KeyTimeout:        "timeout",
		config.KeyRetryMax:       "retries",
		config.KeyDebug:          "verbose",
		config.KeyLogNoColor:     "no-color",
	}
	for key, name := range bindings {
		_ = a.viper.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(NewVersionCommand(info))
	rootCmd.AddCommand(a.newConfigCommand())
	rootCmd.AddCommand(a.newPingCommand())
	rootCmd.AddCommand(a.newGetCommand())
	rootCmd.AddCommand(a.newListCommand())
	rootCmd.AddCommand(a.newFindCommand())
	rootCmd.AddCommand(a.newCountCommand())
	rootCmd.AddCommand(a.newSaveCommand())
	rootCmd.AddCommand(a.newDeleteCommand())

	return rootCmd
}

// load resolves configuration once flags are parsed.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	token, _ := flags.GetString("token")
	if token != "" {
		a.viper.Set(config.KeyAuthHeaderValue, "Bearer "+token)
	}

	ask, _ := flags.GetBool("ask-token")
	if ask {
		secret, err := a.readSecret()
		if err != nil {
			return err
		}

		a.viper.Set(config.KeyAuthHeaderValue, secret)
	}

	verbose, _ := flags.GetBool("verbose")
	if verbose {
		a.viper.Set(config.KeyLogLevel, "debug")
	}

	configFile, _ := flags.GetString("config")

	opts := []config.Option{config.WithViper(a.viper)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	cfg.Log.Output = cmd.ErrOrStderr()

	a.config = cfg
	a.logger = logging.New(cfg.Log)

	if verbose && a.viper.ConfigFileUsed() != "" {
		a.logger.Debug("Using config file", map[string]interface{}{"path": a.viper.ConfigFileUsed()})
	}

	return nil
}

func (a *app) service(resource string) (xmrest.DataService[Record, string], error) {
	logger := a.logger.WithFields(map[string]interface{}{"resource": resource})

	cli, err := xmclient.New(a.config.ClientConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	svc, err := xmclient.Resource[Record, string](cli, resource)
	if err != nil {
		return nil, fmt.Errorf("opening resource %q: %w", resource, err)
	}

	return svc, nil
}

func (a *app) renderer(out io.Writer) renderer {
	return renderer{format: a.config.Output, out: out}
}

func readSecretFromTerminal() (string, error) {
	_, _ = fmt.Fprint(os.Stderr, "Auth header value: ")

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading auth header value: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}
