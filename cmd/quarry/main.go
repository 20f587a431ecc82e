package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quarrydb/quarry/pkg/datasource"
	"github.com/quarrydb/quarry/pkg/logger"
	"github.com/quarrydb/quarry/pkg/provider"
	"github.com/quarrydb/quarry/pkg/schema"
)

var version = "0.1.0"

func main() {
	// Load .env if present so env() indirection resolves during local work.
	_ = godotenv.Load()

	var logLevel string

	root := &cobra.Command{
		Use:   "quarry",
		Short: "Quarry - schema-driven database access engine",
		Long: `Quarry validates a declarative schema describing database connections,
resolves each datasource to a concrete backend, and exposes a query engine
over the resolved connection.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel, Encoding: "console"})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Quarry v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "providers",
		Short: "List registered database providers",
		Run: func(cmd *cobra.Command, args []string) {
			for _, d := range provider.NewRegistry().List() {
				connector := d.Connector()
				capabilities := make([]string, 0, len(connector.Capabilities))
				for _, capability := range connector.Capabilities {
					capabilities = append(capabilities, string(capability))
				}
				fmt.Printf("  - %s (capabilities: %s)\n", d.CanonicalName(), strings.Join(capabilities, ", "))
			}
		},
	})

	var ignoreURLs bool
	var urlOverrides []string
	var overridesFile string

	validateCmd := &cobra.Command{
		Use:   "validate <schema file>",
		Short: "Validate a schema file",
		Long: `Validate a schema file and print every error and warning with its byte
offsets into the source. URL overrides can be passed inline as name=url
pairs or loaded from a YAML/JSON file mapping datasource names to URLs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], ignoreURLs, urlOverrides, overridesFile)
		},
	}
	validateCmd.Flags().BoolVar(&ignoreURLs, "ignore-urls", false, "skip URL resolution and substitute placeholders")
	validateCmd.Flags().StringArrayVar(&urlOverrides, "url-override", nil, "override a datasource URL as name=url (repeatable)")
	validateCmd.Flags().StringVar(&overridesFile, "overrides-file", "", "YAML or JSON file mapping datasource names to URLs")
	root.AddCommand(validateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(schemaPath string, ignoreURLs bool, urlOverrides []string, overridesFile string) error {
	src, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	overrides, err := collectOverrides(urlOverrides, overridesFile)
	if err != nil {
		return err
	}

	cfg, _, diags := schema.ParseConfiguration(schemaPath, src, datasource.LoadOptions{
		IgnoreURLs:   ignoreURLs,
		URLOverrides: overrides,
	})

	for _, warning := range diags.Warnings {
		fmt.Printf("warning: %s [bytes %d..%d]\n", warning.Message, warning.Span.Start, warning.Span.End)
	}
	if diags.HasErrors() {
		for _, diagErr := range diags.Errors {
			fmt.Printf("error: %s [bytes %d..%d]\n", diagErr.Message, diagErr.Span.Start, diagErr.Span.End)
		}
		return fmt.Errorf("schema validation failed with %d error(s)", len(diags.Errors))
	}

	for _, ds := range cfg.Datasources {
		fmt.Printf("datasource %q: provider %s, url %s\n", ds.Name, ds.ActiveProvider, ds.URL.Value)
	}
	fmt.Println("schema is valid")
	return nil
}

func collectOverrides(pairs []string, file string) (map[string]string, error) {
	overrides := make(map[string]string)

	if file != "" {
		v := viper.New()
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read overrides file: %w", err)
		}
		for key, value := range v.AllSettings() {
			url, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("override for %q is not a string", key)
			}
			overrides[key] = url
		}
	}

	for _, pair := range pairs {
		name, url, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid --url-override %q, expected name=url", pair)
		}
		overrides[name] = url
	}

	if len(overrides) == 0 {
		return nil, nil
	}
	return overrides, nil
}
