package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a protein from the registry",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	reg, err := openRegistry()
	if err != nil {
		exitErr("open registry", err)
	}
	defer reg.Close()

	id := strings.ToLower(args[0])
	if !reg.Remove(id) {
		exitErr("rm", fmt.Errorf("protein not found: %s", id))
	}
	if err := reg.Save(); err != nil {
		exitErr("save registry", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"removed":%q}`+"\n", id)
}
