package cli

import (
	"os"

	"github.com/oxcsml/zizkeys/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	provisionNodesFlag  string
	provisionDryRunFlag bool
	statusNodesFlag     string
	initForce           bool
)

// provisionCmd generates a key pair on each node and installs it on the login host
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Generate keys on the GPU nodes and install them on the login host",
	Long: `Provision SSH keys for all four GPU nodes.

For each node, in order:
  1. Submit an srun job to the node's partition generating an RSA key
     pair (2048 bits, empty passphrase) at the configured key path,
     overwriting any existing key.
  2. Submit an interactive srun job running ssh-copy-id to install the
     public key on the shared login host. This prompts for your
     password once per node.

Nodes are processed strictly in order and a failure on one node does
not stop the others. The process exit status is the exit status of the
last srun invocation.

Examples:
  zizkeys provision
  zizkeys provision --nodes 2,3
  zizkeys provision --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return provisionCommand(provisionNodesFlag, provisionDryRunFlag)
	},
}

// statusCmd inspects the keys currently present on each node
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which nodes have a key at the configured path",
	Long: `Check each node for a public key at the configured path and show
its type, length, and fingerprint.

Runs one capture-mode srun job per node; no keys are modified and the
login host is never contacted.

Examples:
  zizkeys status
  zizkeys status --nodes 1,4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(statusNodesFlag)
	},
}

// initCmd creates a starter zizkeys.yaml
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a zizkeys.yaml configuration",
	Long: `Write a starter zizkeys.yaml to the current directory with the
cluster defaults filled in.

Examples:
  zizkeys init
  zizkeys init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

// doctorCmd diagnoses local setup problems
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and environment issues",
	Long: `Run diagnostic checks to identify common problems.

Checks:
  - srun and sinfo availability
  - Configuration file presence and validity
  - Node partitions visible in sinfo
  - Login host resolution via ~/.ssh/config

Examples:
  zizkeys doctor
  zizkeys doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for zizkeys.

Examples:
  # Bash
  zizkeys completion bash > /etc/bash_completion.d/zizkeys

  # Zsh
  zizkeys completion zsh > "${fpath[1]}/_zizkeys"`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrExec,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	provisionCmd.Flags().StringVar(&provisionNodesFlag, "nodes", "", "comma-separated node subset (default: all four)")
	provisionCmd.Flags().BoolVar(&provisionDryRunFlag, "dry-run", false, "print the srun commands without submitting")

	statusCmd.Flags().StringVar(&statusNodesFlag, "nodes", "", "comma-separated node subset (default: all four)")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
