/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	cmds "github.com/microsoft/dsadapter/internal/commands"
	"github.com/microsoft/dsadapter/internal/dap"
	"github.com/microsoft/dsadapter/pkg/logger"
	"github.com/microsoft/dsadapter/pkg/process"
)

const (
	dreamSeekerExeFlag        = "dreamseeker-exe"
	skipMalformedMessagesFlag = "skip-malformed-messages"
)

// Streams are the protocol channel between the adapter and the editor.
type Streams struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

type rootOptions struct {
	dreamSeekerExe        string
	skipMalformedMessages bool
}

func NewRootCmd(log *logger.Logger) *cobra.Command {
	return newRootCmd(log, Streams{In: os.Stdin, Out: os.Stdout})
}

func newRootCmd(log *logger.Logger, streams Streams) *cobra.Command {
	opts := rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "dsadapter",
		Short: "Debug adapter that runs BYOND games in DreamSeeker",
		Long: `dsadapter speaks the Debug Adapter Protocol over stdin and stdout.

It lets an editor start a compiled BYOND game (.dmb) in DreamSeeker and stop it again.
Diagnostic output goes to stderr; stdout carries protocol messages only.`,
		Args:          cobra.NoArgs,
		RunE:          runAdapter(log, &opts, streams),
		PreRun:        cmds.LogVersion(log.Logger, "Starting debug adapter"),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&opts.dreamSeekerExe, dreamSeekerExeFlag, "", "Path to the DreamSeeker executable used to run the game.")
	_ = rootCmd.MarkFlagRequired(dreamSeekerExeFlag)
	rootCmd.Flags().BoolVar(&opts.skipMalformedMessages, skipMalformedMessagesFlag, false, "Log and skip messages that are not valid requests instead of ending the session.")
	log.AddLevelFlag(rootCmd.PersistentFlags())

	rootCmd.AddCommand(cmds.NewVersionCommand(log.Logger))

	return rootCmd
}

func runAdapter(log *logger.Logger, opts *rootOptions, streams Streams) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		adapterLog := log.Logger.WithName("adapter")
		adapterLog.Info("Acting as debug adapter", "DreamSeeker", opts.dreamSeekerExe)

		supervisor := process.NewOSSupervisor(adapterLog)
		transport := dap.NewStdioTransport(streams.In, streams.Out)

		session, sessionErr := dap.NewSession(transport, supervisor, dap.SessionConfig{
			DebuggeeExe:           opts.dreamSeekerExe,
			SkipMalformedMessages: opts.skipMalformedMessages,
		}, adapterLog)
		if sessionErr != nil {
			return sessionErr
		}

		return session.Serve(cmd.Context())
	}
}
