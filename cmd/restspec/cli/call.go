package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/restspec/response"
)

type callOptions struct {
	options string
	named   []string
}

func newCallCmd(root *rootOptions) *cobra.Command {
	opts := &callOptions{}
	cmd := &cobra.Command{
		Use:   "call <function> [args...]",
		Short: "Invoke a function and print the result as JSON",
		Long: "Invoke a function. Positional args bind to the function's argument names in order;\n" +
			"--arg name=value binds by name. Values that parse as JSON are sent typed, others as strings.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, root, func(a *app) error {
				return runCall(cmd, a, opts, args[0], args[1:])
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.options, "options", "", "options context as JSON, sent in the options header")
	fs.StringArrayVar(&opts.named, "arg", nil, "named argument name=value (repeatable)")
	return cmd
}

func runCall(cmd *cobra.Command, a *app, opts *callOptions, name string, args []string) error {
	fn, ok := a.registry.Function(name)
	if !ok {
		return fmt.Errorf("unknown function %q (see restspec list)", name)
	}

	named := make(map[string]any, len(args)+len(opts.named))
	argNames := fn.Spec().Args()
	for i, raw := range args {
		if i >= len(argNames) {
			return fmt.Errorf("%s takes %d arguments, got %d", name, len(argNames), len(args))
		}
		named[argNames[i]] = parseValue(raw)
	}
	for _, kv := range opts.named {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return fmt.Errorf("invalid --arg %q, expected name=value", kv)
		}
		named[k] = parseValue(v)
	}

	var callOpts any
	if opts.options != "" {
		if err := json.Unmarshal([]byte(opts.options), &callOpts); err != nil {
			return fmt.Errorf("invalid --options: %w", err)
		}
	}

	ctx := cmd.Context()
	result, _, err := response.Await(ctx, func(cb response.Callback) {
		fn.CallNamed(ctx, named, callOpts, cb)
	})
	if err != nil {
		if se, ok := response.AsStatusError(err); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "HTTP %d\n", se.StatusCode)
			if se.Body != nil {
				_ = writeJSON(cmd.ErrOrStderr(), se.Body)
			}
		}
		return err
	}
	if result == nil {
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// parseValue decodes raw as JSON when it is valid JSON and returns it as a
// string otherwise.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
