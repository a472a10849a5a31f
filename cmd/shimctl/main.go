// shimctl drives the shimlib binding end to end from the command line:
// open an object, annotate it, describe it through the sized-buffer path,
// and walk its entries through the callback trampoline. It exists to
// exercise the binding protocol in a real binary, not to do anything
// useful with shimlib itself.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbind-io/cbind-go/cbind"
	"github.com/cbind-io/cbind-go/shimbind"
)

var (
	flagName    string
	flagEntries int
	flagNote    string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "shimctl",
		Short:         "Exercise the cbind protocol against the bundled shim library",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	describe := &cobra.Command{
		Use:   "describe",
		Short: "Open an object and print its description",
		RunE:  runDescribe,
	}

	walk := &cobra.Command{
		Use:   "walk",
		Short: "Open an object and walk its entries through the callback trampoline",
		RunE:  runWalk,
	}

	for _, cmd := range []*cobra.Command{describe, walk} {
		cmd.Flags().StringVar(&flagName, "name", "demo", "object name")
		cmd.Flags().IntVar(&flagEntries, "entries", 5, "number of generated entries")
	}
	describe.Flags().StringVar(&flagNote, "note", "", "note to attach before describing")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log binding diagnostics")

	root.AddCommand(describe, walk)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	if !flagVerbose {
		return
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	cbind.SetLogger(logger)
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	setupLogging()

	obj, err := shimbind.Open(flagName, flagEntries)
	if err != nil {
		return err
	}
	defer obj.Free()

	opts := &shimbind.DescribeOptions{}
	if flagNote != "" {
		if err := obj.SetNote(flagNote); err != nil {
			return err
		}
		opts.IncludeNote = true
	}

	desc, err := obj.Describe(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), desc)
	return nil
}

func runWalk(cmd *cobra.Command, _ []string) error {
	setupLogging()

	obj, err := shimbind.Open(flagName, flagEntries)
	if err != nil {
		return err
	}
	defer obj.Free()

	return obj.Walk(context.Background(), func(label string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), label)
		return err
	})
}
