package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/tui"
)

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Explain the urgency colors",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(tui.RenderLegend())
	},
}
