// Command schedc lowers a pipeline description to a single imperative
// statement tree and prints it.
//
// Usage:
//
//	schedc lower <pipeline.yaml>
//	schedc lower --target target.yaml <pipeline.yaml>
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gogpu/imgsched/ir"
	"github.com/gogpu/imgsched/pipeline"
	"github.com/gogpu/imgsched/sched"
	"github.com/gogpu/imgsched/target"
)

var (
	targetPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedc",
		Short: "schedc lowers a scheduled image-processing pipeline to an imperative loop nest",
	}
	root.PersistentFlags().StringVar(&targetPath, "target", "", "path to a target.yaml describing the compile target (default: host-only, all features)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug-level injection decisions")
	root.PersistentFlags().SetNormalizeFunc(normalizeTargetFileAlias)
	root.AddCommand(newLowerCmd())
	return root
}

// normalizeTargetFileAlias accepts --target-file as an alias for --target.
func normalizeTargetFileAlias(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "target-file" {
		name = "target"
	}
	return pflag.NormalizedName(name)
}

func newLowerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lower <pipeline.yaml>",
		Short: "run the schedule-lowering pass over a pipeline description and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLower(args[0])
		},
	}
}

func runLower(pipelinePath string) error {
	p, err := pipeline.Load(pipelinePath)
	if err != nil {
		return fmt.Errorf("loading pipeline: %w", err)
	}

	tg := target.Default()
	if targetPath != "" {
		tg, err = target.Load(targetPath)
		if err != nil {
			return fmt.Errorf("loading target: %w", err)
		}
	}

	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	result, err := sched.Lower(sched.LowerOptions{
		Outputs:     p.Outputs,
		Order:       p.Order,
		FusedGroups: p.FusedGroups,
		Env:         p.Env,
		Target:      tg,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("lowering %s: %w", pipelinePath, err)
	}

	fmt.Println(ir.Print(result.Stmt))
	if result.AnyMemoized {
		fmt.Fprintln(os.Stderr, "note: pipeline contains memoized stages")
	}
	return nil
}
