package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boutique-crm/clientele-cli/internal/model"
	"github.com/boutique-crm/clientele-cli/internal/resolve"
	"github.com/boutique-crm/clientele-cli/internal/store"
)

var (
	setPriority  string
	setStatus    string
	setDealValue float64
	setFollowUp  string
	setNote      string
)

var validPriorities = map[model.PriorityTier]bool{
	model.PriorityLow:      true,
	model.PriorityMedium:   true,
	model.PriorityHigh:     true,
	model.PriorityCritical: true,
	model.PriorityVIP:      true,
}

var validStatuses = map[model.LifecycleStatus]bool{
	model.StatusProspect: true,
	model.StatusActive:   true,
	model.StatusInactive: true,
	model.StatusVIP:      true,
	model.StatusChurned:  true,
}

var setCmd = &cobra.Command{
	Use:   "set <client-id>",
	Short: "Manually override a client's priority, status, or schedule",
	Long: `Set applies a manual edit to a single client. Unlike signal-driven
updates, manual edits bypass classification and stay in effect until the
next analyzed conversation for that client.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		o, err := overrideFromFlags(cmd)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}

		client, err := applyOverride(ctx, st, args[0], o)
		if err != nil {
			return err
		}

		zap.L().Info("client updated",
			zap.String("id", client.ID),
			zap.String("name", client.Name),
			zap.String("priority", string(client.Priority)),
			zap.String("status", string(client.Status)),
		)
		return nil
	},
}

// overrideFromFlags validates the set flags and builds the override to
// apply. At least one flag must be given.
func overrideFromFlags(cmd *cobra.Command) (resolve.Override, error) {
	var o resolve.Override

	if setPriority != "" {
		tier := model.PriorityTier(setPriority)
		if !validPriorities[tier] {
			return o, eris.Errorf("invalid priority %q", setPriority)
		}
		o.Priority = tier
	}
	if setStatus != "" {
		status := model.LifecycleStatus(setStatus)
		if !validStatuses[status] {
			return o, eris.Errorf("invalid status %q", setStatus)
		}
		o.Status = status
	}
	if cmd.Flags().Changed("deal-value") {
		if setDealValue < 0 {
			return o, eris.Errorf("invalid deal value %v", setDealValue)
		}
		v := setDealValue
		o.DealValue = &v
	}
	if setFollowUp != "" {
		due, err := time.Parse("2006-01-02", setFollowUp)
		if err != nil {
			return o, eris.Wrapf(err, "invalid follow-up date %q", setFollowUp)
		}
		o.NextFollowUp = &due
	}
	o.Note = setNote

	if o.Priority == "" && o.Status == "" && o.DealValue == nil && o.NextFollowUp == nil && o.Note == "" {
		return o, eris.New("at least one of --priority, --status, --deal-value, --next-follow-up, --note is required")
	}
	return o, nil
}

// applyOverride loads the client, applies the manual edit, and persists
// the result.
func applyOverride(ctx context.Context, st store.Store, id string, o resolve.Override) (*model.Client, error) {
	client, err := st.GetClient(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "load client %s", id)
	}

	resolve.ApplyOverride(client, o, time.Now())

	saved, err := st.Upsert(ctx, client)
	if err != nil {
		return nil, eris.Wrap(err, "save client")
	}
	return saved, nil
}

func init() {
	setCmd.Flags().StringVar(&setPriority, "priority", "", "priority tier (low|medium|high|critical|vip)")
	setCmd.Flags().StringVar(&setStatus, "status", "", "lifecycle status (prospect|active|inactive|vip|churned)")
	setCmd.Flags().Float64Var(&setDealValue, "deal-value", 0, "estimated deal value in USD")
	setCmd.Flags().StringVar(&setFollowUp, "next-follow-up", "", "follow-up date (YYYY-MM-DD)")
	setCmd.Flags().StringVar(&setNote, "note", "", "replace the client's notes")
	rootCmd.AddCommand(setCmd)
}
