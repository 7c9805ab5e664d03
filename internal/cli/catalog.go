package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tessera-api/internal/catalogfile"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog file commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Check a catalog file for problems",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogValidate,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show FILE",
		Short: "List courses in a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogShow,
	})
	return cmd
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalogfile.Load(args[0])
	if err != nil {
		return err
	}
	problems := cat.Validate()
	for _, p := range problems {
		fmt.Fprintln(cmd.ErrOrStderr(), p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s) found in %s", len(problems), args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d courses, %d sections, ok\n", args[0], len(cat.Courses()), cat.SectionCount())
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	cat, err := catalogfile.Load(args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tTITLE\tCREDITS")
	for _, c := range cat.Courses() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.Code, c.Title, c.Credits)
	}
	return w.Flush()
}
