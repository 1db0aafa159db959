// chainassure is a small operator CLI around the verification flow:
// it connects a wallet bridge, keeps it on the target chain, submits
// the verification transaction and reports the on-chain flag.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func execute() error {
	rootCmd := &cobra.Command{
		Use:     "chainassure",
		Short:   "Wallet network assurance and on-chain verification",
		Version: version,
	}

	rootCmd.AddCommand(createChainsCmd())
	rootCmd.AddCommand(createStatusCmd())
	rootCmd.AddCommand(createVerifyCmd())

	return rootCmd.Execute()
}
