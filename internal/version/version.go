/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package version

import (
	"bytes"
	"strconv"
	"time"
)

const (
	DevelopmentVersion = "dev"
)

// Set at link time with -ldflags "-X".
var (
	ProductVersion = DevelopmentVersion
	CommitHash     = ""
	BuildTimestamp = ""
)

// Timestamp serializes as an RFC 3339 string, or null when unknown.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return []byte("\"" + t.Format(time.RFC3339) + "\""), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	parsed, err := time.Parse("\""+time.RFC3339+"\"", string(data))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

type VersionOutput struct {
	Version    string     `json:"version"`
	CommitHash string     `json:"commitHash,omitempty"`
	BuildTime  *Timestamp `json:"buildTimestamp,omitempty"`
}

// Version returns the build information of the running adapter.
// BuildTimestamp may be either Unix seconds or an RFC 3339 string.
func Version() VersionOutput {
	result := VersionOutput{
		Version:    ProductVersion,
		CommitHash: CommitHash,
	}
	if result.Version == "" {
		result.Version = DevelopmentVersion
	}

	if BuildTimestamp == "" {
		return result
	}

	if seconds, err := strconv.ParseInt(BuildTimestamp, 10, 64); err == nil {
		result.BuildTime = &Timestamp{time.Unix(seconds, 0).UTC()}
	} else if parsed, parseErr := time.Parse(time.RFC3339, BuildTimestamp); parseErr == nil {
		result.BuildTime = &Timestamp{parsed}
	}

	return result
}
