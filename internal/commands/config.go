package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath()
		if err := config.WriteDefault(path); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after applying the file and TODUE_* environment variables.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath()
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		out, err := config.Marshal(loaded)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("# %s\n%s", path, out)
	},
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
