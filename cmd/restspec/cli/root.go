package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	specFile   string
	debug      bool
}

// Run executes the CLI with os.Args-style arguments.
func Run(args []string) error {
	return Execute(context.Background(), args, os.Stdout, os.Stderr)
}

// Execute runs the CLI writing command output to out and diagnostics to
// errOut.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "restspec",
		Short:         "Call REST operations declared in an operation-spec document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.configFile, "config", "c", "", "config file (default: restspec.{yml,yaml,json} in . or ./config)")
	fs.StringVarP(&opts.specFile, "spec", "s", "", "operation-spec document (overrides spec.file)")
	fs.BoolVar(&opts.debug, "debug", false, "log every request descriptor before it is sent")

	cmd.AddCommand(
		newListCmd(opts),
		newCallCmd(opts),
		newOpenAPICmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// withApp loads the app for a command and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(*app) error) (err error) {
	ctx := cmd.Context()
	a, err := loadApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(ctx); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
