package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"pdbselect/internal/model"
)

// manifest is the export payload consumed by downstream pipeline stages.
type manifest struct {
	ExportedAt time.Time                   `json:"exported_at"`
	Criteria   model.Criteria              `json:"criteria"`
	Proteins   map[string]model.Evaluation `json:"proteins"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the registry as a dataset manifest",
		Long:  "Export recorded evaluations as a JSON manifest for downstream dataset builds.",
		Run:   runExport,
	}

	cmd.Flags().Bool("valid", false, "Only proteins that met the criteria")
	cmd.Flags().Bool("ids-only", false, "Only output protein ids, one per line")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	validOnly, _ := cmd.Flags().GetBool("valid")
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

	m := manifest{
		ExportedAt: time.Now().UTC(),
		Criteria:   reg.Summary().SelectionCriteria,
		Proteins:   evals,
	}
	b, _ := json.MarshalIndent(m, "", "  ")
	fmt.Println(string(b))
}
