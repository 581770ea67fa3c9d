package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pdbselect/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded evaluations",
		Run:   runList,
	}

	cmd.Flags().Bool("valid", false, "Only proteins that met the criteria")
	cmd.Flags().StringP("keyword", "k", "", "Filter by function keyword or description substring")
	cmd.Flags().Bool("ids-only", false, "Only output protein ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	validOnly, _ := cmd.Flags().GetBool("valid")
	keyword, _ := cmd.Flags().GetString("keyword")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	reg, err := openRegistry()
	if err != nil {
		exitErr("open registry", err)
	}
	defer reg.Close()

	evals := reg.All()
	if validOnly {
		evals = reg.Valid()
	}
	if keyword != "" {
		kw := strings.ToLower(keyword)
		for id, ev := range evals {
			if !matchesKeyword(ev, kw) {
				delete(evals, id)
			}
		}
	}

	if idsOnly {
		ids := make([]string, 0, len(evals))
		for id := range evals {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	b, _ := json.MarshalIndent(evals, "", "  ")
	fmt.Println(string(b))
}

// matchesKeyword reports whether the recorded function summary mentions kw.
// Summaries are stored lowercased, so kw must be lowercased by the caller.
func matchesKeyword(ev model.Evaluation, kw string) bool {
	if ev.FunctionInfo == nil {
		return false
	}
	if strings.Contains(ev.FunctionInfo.Description, kw) {
		return true
	}
	for _, k := range ev.FunctionInfo.Keywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}
