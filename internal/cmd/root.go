package cmd

import (
	"strings"

	"github.com/TWRT/rtm2todoist/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "rtm2todoist",
	Short: "Move incomplete Remember The Milk tasks into Todoist",
	Long: `rtm2todoist copies incomplete tasks from Remember The Milk to Todoist in
one pass, keeping subtasks under their parents, due dates, priorities, tags
and notes. Recurring tasks keep their schedule as text and are labelled
fix-recurrance so the repeat can be set up again by hand.

Source lists are placed in Todoist projects and sections through the routing
table in the config file. Run "rtm2todoist routes" to get a skeleton.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is "+config.ConfigFile()+")")
}

func initConfig() {
	config.SetDefaults()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	// RTM2TODOIST_SOURCE_FILTER for source.filter
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}
