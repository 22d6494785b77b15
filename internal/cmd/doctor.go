package cmd

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report memory and disk headroom for running clipcore",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if memInfo, err := mem.VirtualMemory(); err == nil {
				fmt.Printf("memory: %.1f%% used (%d MiB available)\n", memInfo.UsedPercent, memInfo.Available/1024/1024)
			} else {
				fmt.Printf("memory: unavailable (%v)\n", err)
			}

			if diskInfo, err := disk.Usage(cfg.FilesRoot); err == nil {
				fmt.Printf("disk (%s): %.1f%% used (%d MiB free)\n", cfg.FilesRoot, diskInfo.UsedPercent, diskInfo.Free/1024/1024)
			} else {
				fmt.Printf("disk (%s): unavailable (%v)\n", cfg.FilesRoot, err)
			}

			fmt.Printf("db path: %s\n", cfg.DBPath)
			return nil
		},
	}
}
