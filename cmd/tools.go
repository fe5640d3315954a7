package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	toolx "github.com/tanpawarit/goodfoods-reservation-agent/agent/tool"
)

func newToolsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Call the tool dispatcher directly (no language model)",
	}
	cmd.AddCommand(newToolsListCmd(opts))
	cmd.AddCommand(newToolsCallCmd(opts))
	return cmd
}

func newToolsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tool catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd.Context(), opts, cmd.OutOrStdout(), contractx.RPCRequest{
				Method: contractx.MethodToolsList,
			})
		},
	}
}

func newToolsCallCmd(opts *rootOptions) *cobra.Command {
	var rawArgs string

	c := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool with JSON arguments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var toolArgs map[string]any
			if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
				return fmt.Errorf("invalid --args: %w", err)
			}
			return dispatch(cmd.Context(), opts, cmd.OutOrStdout(), contractx.RPCRequest{
				Method: contractx.MethodToolsCall,
				Params: map[string]any{"name": args[0], "arguments": toolArgs},
			})
		},
	}
	c.Flags().StringVar(&rawArgs, "args", "{}", "tool arguments as a JSON object")
	return c
}

func newResourcesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Browse dispatcher resources",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List resource descriptors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd.Context(), opts, cmd.OutOrStdout(), contractx.RPCRequest{
				Method: contractx.MethodResourcesList,
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "read <uri>",
		Short: "Read a resource, e.g. restaurants://list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd.Context(), opts, cmd.OutOrStdout(), contractx.RPCRequest{
				Method: contractx.MethodResourcesRead,
				Params: map[string]any{"uri": args[0]},
			})
		},
	})
	return cmd
}

// dispatch sends one request through a freshly seeded dispatcher and prints
// the response envelope.
func dispatch(ctx context.Context, opts *rootOptions, out io.Writer, req contractx.RPCRequest) error {
	appCfg, err := loadAppConfig(opts)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, appCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	dispatcher, err := toolx.NewDispatcher(store)
	if err != nil {
		return err
	}

	req.JSONRPC = contractx.JSONRPCVersion
	req.ID = 1
	resp := dispatcher.Handle(ctx, req)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}
