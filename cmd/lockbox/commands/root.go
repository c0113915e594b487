package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lockbox/internal/app"
	"lockbox/internal/keymanager"
	"lockbox/internal/registry"
)

var (
	home        string
	instanceID  string
	platform    string
	agentSocket string
	password    string
	verbose     bool

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:          "lockbox",
		Short:        "Per-workspace encryption key lifecycle",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".lockbox")
			}
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			// Flags override config file and environment.
			if instanceID != "" {
				cfg.Instance = instanceID
			}
			if platform != "" {
				cfg.Platform = platform
			}
			if agentSocket != "" {
				cfg.AgentSocket = agentSocket
			}
			if verbose {
				cfg.Verbose = true
			}
			wire, err = app.NewWire(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.lockbox)")
	root.PersistentFlags().StringVarP(&instanceID, "instance", "i", "", "workspace instance id")
	root.PersistentFlags().StringVar(&platform, "platform", "", "storage backend: local, host, or vault")
	root.PersistentFlags().StringVar(&agentSocket, "agent", "", "host agent socket or named pipe")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		setupCmd(), unlockCmd(), lockCmd(), changePasswordCmd(),
		sessionCmd(), resetCmd(), instancesCmd(),
	)
	return root.Execute()
}

// currentManager resolves the ambient instance's key manager.
func currentManager() (*keymanager.Manager, error) {
	m, err := wire.Registry.Current()
	if errors.Is(err, registry.ErrNoCurrentInstance) {
		return nil, fmt.Errorf("no instance selected (use --instance)")
	}
	return m, err
}

// readPassword returns the -p flag value, or prompts on the terminal.
func readPassword(label string) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// readNewPassword prompts twice and insists the entries match.
func readNewPassword(label string) (string, error) {
	if password != "" {
		return password, nil
	}
	first, err := readPassword(label)
	if err != nil {
		return "", err
	}
	again, err := readPassword("Repeat " + strings.ToLower(label))
	if err != nil {
		return "", err
	}
	if first != again {
		return "", fmt.Errorf("passwords do not match")
	}
	return first, nil
}
