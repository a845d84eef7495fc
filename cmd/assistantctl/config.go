package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aethervoice/assistant/internal/config"
)

func configCmd() *cobra.Command {
	var envFile string
	var yamlFile string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Dump the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Loader{EnvFilePath: envFile, YAMLFilePath: yamlFile}.Load()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional .env file to load before resolving config")
	cmd.Flags().StringVar(&yamlFile, "yaml-file", "", "optional YAML file overriding defaults before env vars")
	return cmd
}
