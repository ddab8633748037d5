/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package pointers

// Returns the value pointed to by p, or defaultValue if p is nil.
func GetValueOrDefault[T any, PT *T](p PT, defaultValue T) T {
	if p == nil {
		return defaultValue
	}
	return *p
}

// Returns a pointer to a copy of the passed value.
func Pointer[T any](val T) *T {
	return &val
}
