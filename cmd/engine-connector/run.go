package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/operations"
	"github.com/kbukum/engineconnector/server"
)

func newRunCommand(g *globalFlags) *cobra.Command {
	var (
		paramsArg string
		paramKVs  []string
	)
	cmd := &cobra.Command{
		Use:   "run <operation>",
		Short: "Run one operation and print its result as JSON",
		Long: `Run one operation against the configured engine and print the result.

Parameters come from --params (a JSON object, @file, or @- for stdin) and
repeated --param key=value flags, which win over --params. A --param value
that parses as JSON is used as such, anything else is a string.

Failures print the error envelope and exit with status 1.`,
		Example: `  engine-connector run list_containers --params '{"all": true}'
  engine-connector run inspect_container --param id=web
  engine-connector run create_network --params @network.json --server 10.0.0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(paramsArg, paramKVs, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runOperation(cmd, g, args[0], params)
		},
	}
	cmd.Flags().StringVar(&paramsArg, "params", "", "Operation parameters as a JSON object, @file or @-")
	cmd.Flags().StringArrayVar(&paramKVs, "param", nil, "Single parameter as key=value (repeatable)")
	return cmd
}

func runOperation(cmd *cobra.Command, g *globalFlags, name string, params operations.Params) error {
	app, conn, err := newApp(g)
	if err != nil {
		return err
	}
	gw := server.NewGateway(conn, server.GatewayOptions{
		ServiceName: app.Cfg.Name,
		Defaults:    app.Cfg.Connection,
		Log:         app.Logger,
	})

	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		out, err := gw.Execute(ctx, server.GatewayRequest{Operation: name, Params: params})
		if err != nil {
			_ = writeJSON(cmd.OutOrStdout(), errors.From(err).ToResponse())
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	})
}

// parseParams merges the --params object with the --param pairs.
func parseParams(raw string, kvs []string, stdin io.Reader) (operations.Params, error) {
	params := operations.Params{}

	if raw != "" {
		data := []byte(raw)
		if src, ok := strings.CutPrefix(raw, "@"); ok {
			var err error
			if src == "-" {
				data, err = io.ReadAll(stdin)
			} else {
				data, err = os.ReadFile(src)
			}
			if err != nil {
				return nil, fmt.Errorf("reading params: %w", err)
			}
		}
		if err := json.Unmarshal(data, &params); err != nil {
			return nil, errors.InvalidInput("params", "--params must be a JSON object: "+err.Error())
		}
	}

	for _, kv := range kvs {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, errors.InvalidInput("param", fmt.Sprintf("expected key=value, got %q", kv))
		}
		var decoded any
		if err := json.Unmarshal([]byte(val), &decoded); err == nil {
			params[key] = decoded
		} else {
			params[key] = val
		}
	}
	return params, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
