package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.firedancer.io/progtest/cmd/progtest/programs"
	"go.firedancer.io/progtest/cmd/progtest/run"
	"go.firedancer.io/progtest/pkg/progtest"
	"k8s.io/klog/v2"
)

var cmd = cobra.Command{
	Use:   "progtest",
	Short: "Run native Solana programs without a VM",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// diagnostics are silenced unless the bridge is asked for them
		if v := cmd.Flags().Lookup("v"); v != nil && v.Changed {
			if _, ok := os.LookupEnv(progtest.LogEnv); !ok {
				_ = os.Setenv(progtest.LogEnv, v.Value.String())
			}
		}
	},
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(
		&programs.Cmd,
		&run.Cmd,
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	cobra.CheckErr(cmd.ExecuteContext(ctx))
}
