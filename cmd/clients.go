package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boutique-crm/clientele-cli/internal/model"
	"github.com/boutique-crm/clientele-cli/internal/store"
)

var (
	clientsStatus   string
	clientsPriority string
	clientsLimit    int
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List resolved clients",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		clients, err := st.ListClients(ctx, store.ClientFilter{
			Status:   model.LifecycleStatus(clientsStatus),
			Priority: model.PriorityTier(clientsPriority),
			Limit:    clientsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list clients")
		}

		if len(clients) == 0 {
			fmt.Println("No clients found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tPHONE\tPRIORITY\tSTATUS\tINTERESTS\tSOURCE")
		for _, c := range clients {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				c.Name,
				c.Phone,
				c.Priority,
				c.Status,
				strings.Join(c.Interests, ", "),
				c.Source,
			)
		}
		return w.Flush()
	},
}

func init() {
	clientsCmd.Flags().StringVar(&clientsStatus, "status", "", "filter by status (prospect, active, inactive, vip, churned)")
	clientsCmd.Flags().StringVar(&clientsPriority, "priority", "", "filter by priority (low, medium, high, critical, vip)")
	clientsCmd.Flags().IntVar(&clientsLimit, "limit", 100, "maximum rows to return")
	rootCmd.AddCommand(clientsCmd)
}
