package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pdbselect/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [id]...",
		Short: "Evaluate proteins and record the verdicts",
		Long: "Evaluate proteins against the selection criteria and record the verdicts.\n" +
			"Ids already in the registry are returned unchanged unless --force is set.\n" +
			"Failed evaluations are recorded too; they do not stop the batch.",
		Run: runAdd,
	}

	cmd.Flags().String("from-file", "", "Read ids from a file, one per line (# starts a comment)")
	cmd.Flags().Bool("force", false, "Re-evaluate ids already in the registry")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	fromFile, _ := cmd.Flags().GetString("from-file")
	force, _ := cmd.Flags().GetBool("force")

	ids := args
	if fromFile != "" {
		fileIDs, err := readIDFile(fromFile)
		if err != nil {
			exitErr("read id file", err)
		}
		ids = append(ids, fileIDs...)
	}
	if len(ids) == 0 {
		exitErr("add", fmt.Errorf("no ids given (positional args or --from-file)"))
	}

	reg, err := openRegistry()
	if err != nil {
		exitErr("open registry", err)
	}
	defer reg.Close()

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

func readIDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, sc.Err()
}
