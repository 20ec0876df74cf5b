package run

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/common/expfmt"
	"github.com/segmentio/textio"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.firedancer.io/progtest/pkg/fixture"
	"go.firedancer.io/progtest/pkg/progtest"
	"go.firedancer.io/progtest/pkg/util"
	"k8s.io/klog/v2"
)

var Cmd = cobra.Command{
	Use:   "run <fixture.yaml>...",
	Short: "Run transaction fixtures against the example programs",
	Args:  cobra.MinimumNArgs(1),
}

var flags = Cmd.Flags()

var (
	flagLogs    = flags.Bool("logs", false, "Print program logs of every fixture")
	flagHashes  = flags.Bool("hashes", false, "Print account state hashes")
	flagMetrics = flags.Bool("metrics", false, "Dump invocation metrics when done")
	flagNoBar   = flags.Bool("no-progress", false, "Never show a progress bar")
	flagDump    = flags.String("dump", "", "Write post state of expected accounts below this directory")
)

func init() {
	Cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runFixtures(cmd, args)
	}
}

func runFixtures(cmd *cobra.Command, paths []string) error {
	out := cmd.OutOrStdout()

	var bar *mpb.Bar
	var progress *mpb.Progress
	if len(paths) > 1 && !*flagNoBar && isatty.IsTerminal(os.Stderr.Fd()) {
		progress = mpb.NewWithContext(cmd.Context(), mpb.WithOutput(os.Stderr), mpb.WithWidth(40))
		bar = progress.AddBar(int64(len(paths)),
			mpb.PrependDecorators(decor.Name("fixtures ")),
			mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
		)
	}

	fixtures, loadErrs, err := fixture.LoadFiles(cmd.Context(), paths)
	if err != nil {
		return err
	}

	failed := 0
	for i, path := range paths {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		passed, err := false, loadErrs[i]
		if err == nil {
			passed, err = runFixture(out, fixtures[i])
		}
		if err != nil {
			klog.Errorf("%s: %s", path, err)
			failed++
		} else if !passed {
			failed++
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if progress != nil {
		progress.Wait()
	}

	if *flagMetrics {
		if err := dumpMetrics(out); err != nil {
			return err
		}
	}

	if failed != 0 {
		return fmt.Errorf("%d of %d fixtures failed", failed, len(paths))
	}
	return nil
}

func runFixture(out io.Writer, f *fixture.Fixture) (bool, error) {
	outcome, err := f.Run()
	if err != nil {
		return false, err
	}
	if *flagDump != "" {
		if err := outcome.Dump(filepath.Join(*flagDump, filepath.Base(f.Name))); err != nil {
			return false, err
		}
	}

	status := "PASS"
	if !outcome.Passed() {
		status = "FAIL"
	}
	fmt.Fprintf(out, "%s %s (%d CU)\n", status, f.Name, outcome.Result.ComputeUnitsConsumed)

	w := textio.NewPrefixWriter(out, "    ")
	defer w.Flush()

	for _, failure := range outcome.Failures {
		fmt.Fprintln(w, failure)
	}
	if *flagHashes {
		keys := make([]solana.PublicKey, 0, len(outcome.Hashes))
		for key := range outcome.Hashes {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return util.PubkeyCmp(keys[i], keys[j])
		})
		for _, key := range keys {
			fmt.Fprintf(w, "%s %s\n", key, outcome.Hashes[key])
		}
	}
	if *flagLogs || !outcome.Passed() {
		for _, line := range outcome.Result.Logs {
			fmt.Fprintln(w, line)
		}
	}
	return outcome.Passed(), nil
}

func dumpMetrics(out io.Writer) error {
	families, err := progtest.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}
