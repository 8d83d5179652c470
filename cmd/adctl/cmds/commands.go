package cmds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adzkyyy/adCTF/internal/types"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the competition and the tick scheduler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := do(cmd.Context(), http.MethodPost, "/competition/start/")
		if err != nil {
			return err
		}

		fmt.Println("competition started")
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the competition",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := do(cmd.Context(), http.MethodPost, "/competition/stop/")
		if err != nil {
			return err
		}

		fmt.Println("competition stopped")
		return nil
	},
}

var scoreboardCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Print the current scoreboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := do(cmd.Context(), http.MethodGet, "/api/scoreboard/")
		if err != nil {
			return err
		}

		return printScores(body)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Drop the cached scoreboard and recompute it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := do(cmd.Context(), http.MethodPost, "/api/scoreboard/refresh/")
		if err != nil {
			return err
		}

		return printScores(body)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scoreboard cache status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := do(cmd.Context(), http.MethodGet, "/api/cache/status/")
		if err != nil {
			return err
		}

		fmt.Println(string(body))
		return nil
	},
}

func printScores(body []byte) error {
	var scores []types.UserScore
	if err := json.Unmarshal(body, &scores); err != nil {
		return fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tTOTAL\tATTACK\tDEFENSE")
	for i, s := range scores {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%d\n",
			i+1, s.Username, s.TotalPoints, s.AttackPoints, s.DefensePoints)
	}

	return w.Flush()
}
