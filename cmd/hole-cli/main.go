// Package main is the entry point for hole-cli. It registers the encryption and
// migration sub-commands and executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/d1s-utils/hole/cmd/hole-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "hole-cli",
		Short: "Maintenance tool for the hole storage server",
		Long: `hole-cli works on hole data outside the server.
It encrypts and decrypts files in the format used for encrypted storage objects
and applies or reverts the database schema of a server configuration.`,
		SilenceUsage: true,
	}

	if err := commands.InitCipherCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize cipher commands: %w", err)
	}

	if err := commands.InitMigrateCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize migrate commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
