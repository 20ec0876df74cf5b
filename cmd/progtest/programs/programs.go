package programs

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.firedancer.io/progtest/pkg/examples"
)

var Cmd = cobra.Command{
	Use:   "programs",
	Short: "List the programs fixtures can call",
	Args:  cobra.NoArgs,
	Run:   listPrograms,
}

func listPrograms(_ *cobra.Command, _ []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROGRAM ID\tDESCRIPTION")
	for _, ex := range examples.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ex.Name, ex.ProgramID, ex.Description)
	}
	_ = w.Flush()
}
