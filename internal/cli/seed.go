package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdbselect/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Evaluate the recommended starter proteins",
		Long:  "Evaluate the curated starter set of well-characterized proteins and record the verdicts.",
		Run:   runSeed,
	}

	cmd.Flags().Bool("force", false, "Re-evaluate starter proteins already in the registry")

	RootCmd.AddCommand(cmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")

	reg, err := openRegistry()
	if err != nil {
		exitErr("open registry", err)
	}
	defer reg.Close()

	ids := model.RecommendedProteins()
	evals := make([]model.Evaluation, 0, len(ids))
	for _, id := range ids {
		if force {
			evals = append(evals, reg.Reevaluate(cmd.Context(), id))
		} else {
			evals = append(evals, reg.Add(cmd.Context(), id))
		}
	}

	if err := reg.Save(); err != nil {
		exitErr("save registry", err)
	}

	b, _ := json.MarshalIndent(evals, "", "  ")
	fmt.Println(string(b))
}
