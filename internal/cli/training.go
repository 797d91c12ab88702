package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/agentoven/concierge/internal/hub"
	"github.com/agentoven/concierge/pkg/models"
	"github.com/spf13/cobra"
)

var (
	trainingJSON   bool
	trainingOwner  string
	trainingMaster bool
)

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Inspect the training catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var trainingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List training items (all, --master, or --owner <agent-id>)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if trainingMaster && trainingOwner != "" {
			return fmt.Errorf("--master and --owner are mutually exclusive")
		}
		return withHub(cmd.Context(), func(h *hub.Hub) error {
			var items []models.TrainingItem
			switch {
			case trainingOwner != "":
				items = h.ClientTraining(trainingOwner)
			case trainingMaster:
				items = h.MasterTraining()
			default:
				items = h.AllTraining()
			}

			out := cmd.OutOrStdout()
			if trainingJSON {
				return writeJSON(out, items)
			}
			printHeader(out, "Training")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tKIND\tSCOPE\tOWNER\tVERSIONS\tPUBLISHED\tARCHIVED")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%v\n",
					it.ID, it.Title, it.Kind, it.Scope, dash(it.OwnerID), it.Len(), it.PublishedID, it.Archived)
			}
			return tw.Flush()
		})
	},
}

func init() {
	trainingCmd.PersistentFlags().BoolVar(&trainingJSON, "json", false, "Output machine-readable JSON")
	trainingListCmd.Flags().StringVar(&trainingOwner, "owner", "", "Show the active items visible to this agent")
	trainingListCmd.Flags().BoolVar(&trainingMaster, "master", false, "Show the active master-scoped items")
	trainingCmd.AddCommand(trainingListCmd)
}
