/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package logger

import (
	"bytes"
	"sync"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Sync() error { return nil }

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStringToLevel(t *testing.T) {
	t.Parallel()

	type testcase struct {
		value    string
		expected zapcore.Level
		valid    bool
	}

	testcases := []testcase{
		{"debug", zapcore.DebugLevel, true},
		{"INFO", zapcore.InfoLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"1", zapcore.Level(-1), true},
		{"4", zapcore.Level(-4), true},
		{"0", zapcore.WarnLevel, false},
		{"-2", zapcore.WarnLevel, false},
		{"loud", zapcore.WarnLevel, false},
	}

	for _, tc := range testcases {
		level, err := StringToLevel(tc.value, zapcore.WarnLevel)
		if tc.valid {
			require.NoError(t, err, "value %q should be accepted", tc.value)
		} else {
			require.Error(t, err, "value %q should be rejected", tc.value)
		}
		assert.Equal(t, tc.expected, level, "unexpected level for %q", tc.value)
	}
}

func TestLevelFlagControlsOutput(t *testing.T) {
	t.Parallel()

	out := &syncBuffer{}
	log := NewWithOutput("test", out)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	log.AddLevelFlag(fs)

	log.V(1).Info("hidden detail")
	assert.NotContains(t, out.String(), "hidden detail")

	require.NoError(t, fs.Parse([]string{"-v=debug"}))
	assert.Equal(t, zapcore.DebugLevel, log.Level())

	log.V(1).Info("visible detail")
	log.Flush()
	assert.Contains(t, out.String(), "visible detail")
	assert.Contains(t, out.String(), "test")
}

func TestInvalidLevelFlagIsRejected(t *testing.T) {
	t.Parallel()

	log := NewWithOutput("test", &syncBuffer{})
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	log.AddLevelFlag(fs)

	require.Error(t, fs.Parse([]string{"--verbosity=chatty"}))
	assert.Equal(t, zapcore.InfoLevel, log.Level())
}
