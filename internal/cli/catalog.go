package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/catalog"
)

// NewCatalogCmd builds the subcommand that lists or prints embedded catalogs.
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [id]",
		Short: "List the embedded catalogs, or print the questions of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := catalog.NewEmbeddedLoader()
			if len(args) == 0 {
				return listCatalogs(loader, cmd.OutOrStdout())
			}
			return printCatalog(cmd.Context(), loader, args[0], cmd.OutOrStdout())
		},
	}
}

func listCatalogs(loader *catalog.EmbeddedLoader, out io.Writer) error {
	ids, err := loader.IDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		cat, err := loader.LoadCatalog(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%d questions\n", cat.ID, cat.Title, len(cat.Entries))
	}
	return nil
}

func printCatalog(ctx context.Context, loader *catalog.EmbeddedLoader, id string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cat, err := loader.LoadCatalog(ctx, id)
	if err != nil {
		return err
	}
	deck, err := cat.NewDeck()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%d questions, max score %d)\n", cat.Title, deck.Size(), deck.MaxScore())
	for i, q := range deck.Questions() {
		fmt.Fprintf(out, "%2d. %s\n    %s\n", i+1, q.Prompt(), strings.ReplaceAll(q.Info(), "\n", "\n    "))
	}
	return nil
}
