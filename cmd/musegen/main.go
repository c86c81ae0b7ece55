package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"

	"musegen/internal/app"
	"musegen/internal/config"
	"musegen/internal/encryption"
	"musegen/internal/muse"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "musegen",
	Short: "Turn text prompts into images, 3D models, and a searchable memory",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Datastore: %s\n", cfg.Datastore.Type)
		fmt.Printf("Artifacts: %s (encrypted=%v)\n", cfg.Artifacts.Type, cfg.Artifacts.Encrypted)
		return nil
	},
}

// setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate the artifact encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		passphrase, err := readPassphrase(true)
		if err != nil {
			return err
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// submit command
var submitUser string

var submitCmd = &cobra.Command{
	Use:   "submit <text>",
	Short: "Submit a prompt or a memory command",
	Long: `Submit free text. Inputs matching the memory grammar (plain "memory",
"memory id <id>", "memory search <terms...>") query stored creations;
anything else runs the generation pipeline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Submit(context.Background(), strings.Join(args, " "), submitUser)
		if err != nil {
			return err
		}
		return printResult(result.Creation, result.Query)
	},
}

// memory command: convenience front for the query grammar.
var memoryCmd = &cobra.Command{
	Use:   "memory [id <id> | search <terms...>]",
	Short: "Query stored creations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		input := strings.Join(append([]string{"memory"}, args...), " ")
		result, err := a.Submit(context.Background(), input, "")
		if err != nil {
			return err
		}
		return printResult(result.Creation, result.Query)
	},
}

// retry command
var retryCmd = &cobra.Command{
	Use:   "retry <id>",
	Short: "Re-run the 3D stage for a partial creation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.ArtifactsEncrypted() {
			passphrase, err := readPassphrase(false)
			if err != nil {
				return err
			}
			if err := a.Unlock(passphrase); err != nil {
				return fmt.Errorf("unlocking private key: %w", err)
			}
		}

		creation, err := a.RetryModel(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Creation %s is now %s\n", creation.ID, creation.Status)
		if creation.ModelPath != "" {
			fmt.Printf("Model: %s\n", creation.ModelPath)
		}
		return nil
	},
}

// readPassphrase prompts on the terminal without echo. With confirm set, the
// passphrase is requested twice and must match.
func readPassphrase(confirm bool) (string, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if !confirm {
		return string(first), nil
	}

	fmt.Fprint(os.Stderr, "Confirm passphrase: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passphrases do not match")
	}
	return string(first), nil
}

func printResult(creation *muse.CreationResult, query *muse.QueryResult) error {
	var out any = creation
	if creation == nil {
		out = query
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	submitCmd.Flags().StringVar(&submitUser, "user", "", "user ID to record on the creation")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(retryCmd)
}
