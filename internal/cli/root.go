// Package cli implements the zizkeys command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var (
	configFlag string
)

// exitStatus is the code the process exits with after a successful cobra
// run. The provision command sets it to the exit code of the last srun
// invocation, so the process status follows the last command executed.
var exitStatus int

var rootCmd = &cobra.Command{
	Use:   "zizkeys",
	Short: "Provision SSH keys on the ziz GPU nodes",
	Long: `zizkeys provisions SSH key pairs on the four ziz GPU compute nodes and
installs the public keys on the shared login host, so batch jobs on the
nodes can ssh and rsync back without a password.

Key generation runs on each node via srun; installation uses an
interactive srun job running ssh-copy-id, which prompts for your
password once per node.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Config returns the value of the global --config flag.
func Config() string {
	return configFlag
}

// SetExitStatus records the code Execute should exit with.
func SetExitStatus(code int) {
	exitStatus = code
}

// Execute runs the command tree and exits the process.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if exitStatus != 0 {
		os.Exit(exitStatus)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to zizkeys.yaml")
}
