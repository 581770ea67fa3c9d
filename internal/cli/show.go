package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one recorded evaluation",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	reg, err := openRegistry()
	if err != nil {
		exitErr("open registry", err)
	}
	defer reg.Close()

	id := strings.ToLower(args[0])
	ev, ok := reg.Get(id)
	if !ok {
		exitErr("show", fmt.Errorf("protein not found: %s", id))
	}

	b, _ := json.MarshalIndent(ev, "", "  ")
	fmt.Println(string(b))
}
