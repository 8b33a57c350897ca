package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boutique-crm/clientele-cli/internal/followup"
	"github.com/boutique-crm/clientele-cli/internal/model"
)

var followupsBucket string

var followupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "Show the prioritized follow-up queue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		tasks, err := followup.Build(ctx, st, time.Now())
		if err != nil {
			return eris.Wrap(err, "build follow-up queue")
		}

		if followupsBucket != "" {
			tasks = filterBucket(tasks, model.FollowUpBucket(followupsBucket))
		}

		if len(tasks) == 0 {
			fmt.Println("No follow-ups scheduled.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "BUCKET\tDUE\tCLIENT\tPHONE\tURGENCY\tDEAL VALUE\tNEXT ACTION")
		for _, t := range tasks {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t$%.0f\t%s\n",
				t.Bucket,
				t.Due.Format("2006-01-02"),
				t.Name,
				t.Phone,
				t.UrgencyScore,
				t.DealValue,
				t.NextAction,
			)
		}
		return w.Flush()
	},
}

func filterBucket(tasks []model.FollowUpTask, bucket model.FollowUpBucket) []model.FollowUpTask {
	var out []model.FollowUpTask
	for _, t := range tasks {
		if t.Bucket == bucket {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	followupsCmd.Flags().StringVar(&followupsBucket, "bucket", "", "filter by bucket (overdue, due_today, due_tomorrow, upcoming)")
	rootCmd.AddCommand(followupsCmd)
}
