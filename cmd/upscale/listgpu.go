package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/upscale"
)

func (a *app) listGPUCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-gpu",
		Short: "List the GPUs usable by the backend",
		Long:  `List the GPUs of the selected backend as "index: name" lines. The index is the value of --gpu_id.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.manager()
			if err != nil {
				return err
			}
			text, err := upscale.ListDevices(mgr)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
}
