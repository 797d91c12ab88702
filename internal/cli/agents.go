package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/agentoven/concierge/internal/hub"
	"github.com/agentoven/concierge/internal/redact"
	"github.com/agentoven/concierge/pkg/server"
	"github.com/spf13/cobra"
)

var agentsJSON bool

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Inspect the agent hierarchy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the master and its delegates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHub(cmd.Context(), func(h *hub.Hub) error {
			agents := h.Agents()
			out := cmd.OutOrStdout()
			if agentsJSON {
				return writeJSON(out, agents)
			}
			printHeader(out, "Agents")
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tROLE\tPARENT\tPOLICY")
			for _, a := range agents {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Lineage.Role, dash(a.ParentID()), policySummary(a.Privacy != nil, a.Privacy != nil && a.Privacy.ShareOnlyAllowlist))
			}
			return tw.Flush()
		})
	},
}

var redactCmd = &cobra.Command{
	Use:   "redact <agent-id> <profile.json|->",
	Short: "Show what of a profile an agent may disclose to its parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := readProfile(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}
		return withHub(cmd.Context(), func(h *hub.Hub) error {
			out, ok := h.RedactedForAgent(cmd.Context(), args[0], profile)
			if !ok {
				return fmt.Errorf("agent %q not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), out)
		})
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt <agent-id>",
	Short: "Print the system prompt composed for an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHub(cmd.Context(), func(h *hub.Hub) error {
			prompt, ok := h.SystemPrompt(args[0])
			if !ok {
				return fmt.Errorf("agent %q not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return nil
		})
	},
}

func init() {
	agentsCmd.PersistentFlags().BoolVar(&agentsJSON, "json", false, "Output machine-readable JSON")
	agentsCmd.AddCommand(agentsListCmd)
}

// withHub opens the configured store for the duration of fn.
func withHub(ctx context.Context, fn func(*hub.Hub) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	h, err := server.OpenHub(ctx, appCfg)
	if err != nil {
		return err
	}
	defer h.Close()
	return fn(h)
}

func readProfile(stdin io.Reader, path string) (redact.Record, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var profile redact.Record
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return profile, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func policySummary(hasPolicy, allowlist bool) string {
	switch {
	case allowlist:
		return "allowlist"
	case hasPolicy:
		return "mask"
	default:
		return "-"
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
