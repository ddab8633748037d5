/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/microsoft/dsadapter/pkg/logger"
	"github.com/microsoft/dsadapter/pkg/testutil"
)

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error { return nil }

func newTestRootCmd(t *testing.T, input []byte) (*bufferCloser, func(args ...string) error) {
	t.Helper()

	log := logger.NewWithOutput(t.Name(), zapcore.AddSync(io.Discard))
	out := &bufferCloser{}
	root := newRootCmd(log, Streams{In: io.NopCloser(bytes.NewReader(input)), Out: out})

	return out, func(args ...string) error {
		ctx, cancel := testutil.GetTestContext(t, 0)
		defer cancel()
		// A nil slice would make cobra fall back to the test binary's own arguments.
		root.SetArgs(append([]string{}, args...))
		return root.ExecuteContext(ctx)
	}
}

func TestRootRequiresDreamSeekerExe(t *testing.T) {
	t.Parallel()

	out, run := newTestRootCmd(t, nil)
	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), dreamSeekerExeFlag)
	assert.Zero(t, out.Len(), "nothing should be written to the protocol channel")
}

func TestRootRejectsPositionalArguments(t *testing.T) {
	t.Parallel()

	_, run := newTestRootCmd(t, nil)
	err := run("--dreamseeker-exe", "dreamseeker", "game.dmb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.dmb")
}

func TestRootRejectsInvalidVerbosity(t *testing.T) {
	t.Parallel()

	_, run := newTestRootCmd(t, nil)
	require.Error(t, run("--dreamseeker-exe", "dreamseeker", "-v", "loud"))
}

func TestRootServesProtocolOnStreams(t *testing.T) {
	t.Parallel()

	var input bytes.Buffer
	require.NoError(t, dap.WriteBaseMessage(&input, []byte(`{"seq":1,"type":"request","command":"initialize","arguments":{"adapterID":"byond"}}`)))
	require.NoError(t, dap.WriteBaseMessage(&input, []byte(`{"seq":2,"type":"request","command":"disconnect"}`)))

	out, run := newTestRootCmd(t, input.Bytes())
	require.NoError(t, run("--dreamseeker-exe", "dreamseeker", "-v", "debug"))

	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	first, err := dap.ReadProtocolMessage(reader)
	require.NoError(t, err)
	initResp, ok := first.(*dap.InitializeResponse)
	require.True(t, ok, "unexpected message %T", first)
	assert.True(t, initResp.Body.SupportTerminateDebuggee)

	second, err := dap.ReadProtocolMessage(reader)
	require.NoError(t, err)
	disconnectResp, ok := second.(*dap.DisconnectResponse)
	require.True(t, ok, "unexpected message %T", second)
	assert.Equal(t, 2, disconnectResp.Seq)
	assert.Equal(t, 2, disconnectResp.RequestSeq)

	_, err = dap.ReadBaseMessage(reader)
	require.ErrorIs(t, err, io.EOF, "no other messages expected")
}

func TestRootStopsOnMalformedMessage(t *testing.T) {
	t.Parallel()

	var input bytes.Buffer
	require.NoError(t, dap.WriteBaseMessage(&input, []byte(`not json`)))
	require.NoError(t, dap.WriteBaseMessage(&input, []byte(`{"seq":1,"type":"request","command":"initialize"}`)))

	out, run := newTestRootCmd(t, input.Bytes())
	err := run("--dreamseeker-exe", "dreamseeker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed message")
	assert.Zero(t, out.Len(), "no request after the malformed message should be answered")
}

func TestRootSkipsMalformedMessagesWhenAsked(t *testing.T) {
	t.Parallel()

	var input bytes.Buffer
	require.NoError(t, dap.WriteBaseMessage(&input, []byte(`{"seq":1,"type":"event","event":"output"}`)))
	require.NoError(t, dap.WriteBaseMessage(&input, []byte(`not json`)))
	require.NoError(t, dap.WriteBaseMessage(&input, []byte(`{"seq":2,"type":"request","command":"initialize"}`)))

	out, run := newTestRootCmd(t, input.Bytes())
	require.NoError(t, run("--dreamseeker-exe", "dreamseeker", "--skip-malformed-messages"))

	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	msg, err := dap.ReadProtocolMessage(reader)
	require.NoError(t, err)
	initResp, ok := msg.(*dap.InitializeResponse)
	require.True(t, ok, "unexpected message %T", msg)
	assert.Equal(t, 2, initResp.RequestSeq)
}

func TestRootHelpIsNotIndented(t *testing.T) {
	t.Parallel()

	log := logger.NewWithOutput(t.Name(), zapcore.AddSync(io.Discard))
	root := newRootCmd(log, Streams{In: io.NopCloser(bytes.NewReader(nil)), Out: &bufferCloser{}})

	for _, line := range strings.Split(root.Long, "\n") {
		assert.False(t, strings.HasPrefix(line, "\t"), "help line %q should not start with a tab", line)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	log := logger.NewWithOutput(t.Name(), zapcore.AddSync(io.Discard))
	root := newRootCmd(log, Streams{In: io.NopCloser(bytes.NewReader(nil)), Out: &bufferCloser{}})

	var versionOut bytes.Buffer
	root.SetOut(&versionOut)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute(), "version must not require the DreamSeeker path")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(versionOut.Bytes(), &parsed))
	assert.Contains(t, parsed, "version")
}
