package main

import (
	"fmt"
	"slices"

	"shoppos/internal/config"
	"shoppos/internal/infra"
	"shoppos/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsPeekCmd)
	jobsCmd.AddCommand(jobsRequeueCmd)

	jobsPeekCmd.Flags().Int64P("limit", "n", 10, "Number of entries to show")
	jobsRequeueCmd.Flags().IntP("limit", "n", 100, "Maximum number of entries to move")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and requeue dead-lettered background jobs",
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show queued and dead-lettered job counts per queue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rdb, err := openRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		dead, err := worker.DLQLengths(cmd.Context(), rdb)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-14s %8s %8s\n", "QUEUE", "PENDING", "DEAD")
		for _, q := range worker.Queues {
			pending, err := rdb.LLen(cmd.Context(), q).Result()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-14s %8d %8d\n", q, pending, dead[q])
		}
		return nil
	},
}

var jobsPeekCmd = &cobra.Command{
	Use:   "peek QUEUE",
	Short: "Show the most recent dead-lettered entries of QUEUE",
	Args:  queueArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt64("limit")
		rdb, err := openRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		entries, err := worker.PeekDLQ(cmd.Context(), rdb, args[0], limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s attempts=%d  %s\n",
				e.FailedAt.Format("2006-01-02 15:04:05"), e.JobType, e.Attempts, e.Reason)
		}
		return nil
	},
}

var jobsRequeueCmd = &cobra.Command{
	Use:   "requeue QUEUE",
	Short: "Move dead-lettered entries of QUEUE back onto the live queue",
	Args:  queueArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		rdb, err := openRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		moved, err := worker.RequeueDLQ(cmd.Context(), rdb, args[0], limit)
		fmt.Fprintf(cmd.OutOrStdout(), "requeued %d job(s) on %s\n", moved, args[0])
		return err
	},
}

func queueArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if !slices.Contains(worker.Queues, args[0]) {
		return fmt.Errorf("unknown queue %q (known: %v)", args[0], worker.Queues)
	}
	return nil
}

func openRedis() (*redis.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return infra.NewRedis(cfg.RedisURL)
}
