/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package pointers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetValueOrDefault(t *testing.T) {
	t.Parallel()

	var absent *bool
	assert.True(t, GetValueOrDefault(absent, true))
	assert.False(t, GetValueOrDefault(Pointer(false), true))
	assert.Equal(t, "set", GetValueOrDefault(Pointer("set"), "default"))
}

func TestPointerCopiesValue(t *testing.T) {
	t.Parallel()

	v := 5
	p := Pointer(v)
	v = 6
	assert.Equal(t, 5, *p)
}
