// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdftable/internal/discover"
)

var listCmd = &cobra.Command{
	Use:   "list [root]",
	Short: "List the files a step would process",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		ext, _ := cmd.Flags().GetString("ext")
		asYAML, _ := cmd.Flags().GetBool("yaml")

		files, err := discover.Find(cfg.RootDir, ext)
		if err != nil {
			return err
		}

		if asYAML {
			data, err := yaml.Marshal(map[string][]string{"files": files})
			if err != nil {
				return fmt.Errorf("marshaling file list: %w", err)
			}
			_, err = stdout.Write(data)
			return err
		}
		for _, f := range files {
			fmt.Fprintln(stdout, f)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().String("ext", ".pdf", "file name suffix to match (empty matches all files)")
	listCmd.Flags().Bool("yaml", false, "print the list as YAML")

	rootCmd.AddCommand(listCmd)
}
