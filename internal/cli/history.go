package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdbselect/internal/registry"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show past evaluation attempts",
		Long:  "Show the evaluation audit log for one protein, or for all proteins when no id is given. Requires history_db to be configured.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runHistory,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max attempts to show")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	if cfg.HistoryDB == "" {
		exitErr("history", fmt.Errorf("history_db is not configured"))
	}

	l, err := registry.OpenEvalLog(cfg.HistoryDB)
	if err != nil {
		exitErr("open history", err)
	}
	defer l.Close()

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	recs, err := l.History(cmd.Context(), id, limit)
	if err != nil {
		exitErr("history", err)
	}

	b, _ := json.MarshalIndent(recs, "", "  ")
	fmt.Println(string(b))
}
