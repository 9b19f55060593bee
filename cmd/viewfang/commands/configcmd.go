package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/viewfang/pkg/config"
)

// ErrProfileExists guards against clobbering an existing profile.
var ErrProfileExists = errors.New("profile already exists")

// profileFilePerm is the mode for generated profile files.
const profileFilePerm = 0o600

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage viewfang profiles",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigInitCommand writes a default profile file.
func newConfigInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default profile file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := path
			if target == "" {
				target = "viewfang.yaml"
			}

			if !force {
				_, statErr := os.Stat(target)
				if statErr == nil {
					return fmt.Errorf("%w: %s (use --force to overwrite)", ErrProfileExists, target)
				}
			}

			dirErr := os.MkdirAll(filepath.Dir(target), 0o750)
			if dirErr != nil {
				return fmt.Errorf("create profile directory: %w", dirErr)
			}

			writeErr := os.WriteFile(target, defaultProfile(), profileFilePerm)
			if writeErr != nil {
				return fmt.Errorf("write profile: %w", writeErr)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "profile destination (default: ./viewfang.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")

	return cmd
}

// newConfigShowCommand prints the resolved configuration, after profile
// and environment merging, as YAML.
func newConfigShowCommand() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(profile)
			if err != nil {
				return err
			}

			out, marshalErr := yaml.Marshal(cfg)
			if marshalErr != nil {
				return fmt.Errorf("marshal config: %w", marshalErr)
			}

			_, writeErr := cmd.OutOrStdout().Write(out)

			return writeErr
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "profile file to resolve against")

	return cmd
}

// defaultProfile renders the annotated starter profile.
func defaultProfile() []byte {
	return []byte(`# viewfang profile. Values here are overridden by VIEWFANG_*
# environment variables and CLI flags, in that order.

# Output mode: plain | highlight | summary | tokens.
mode: plain

# Output format: text | json | json-stream.
format: text

# Truncation caps. 0 disables a cap.
max_lines: 0
max_bytes: 0

# Token budgeting for --fit-context.
model: ` + config.DefaultModel + `
reserve_tokens: ` + fmt.Sprint(config.DefaultReserveTokens) + `

# Structural summary detail: minimal | standard | detailed.
summary_depth: standard

# Highlighting theme.
theme: ` + config.DefaultTheme + `

# Line numbering: none | all | nonblank.
number_style: none

streaming:
  # Lines per chunk in json-stream format.
  chunk_size: ` + fmt.Sprint(config.DefaultChunkSize) + `

# ANSI color on stderr notices: auto | on | off.
color: auto

# Log level: debug | info | warn | error.
log_level: warn
`)
}
