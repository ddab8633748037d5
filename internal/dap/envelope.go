/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package dap

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// decodeRequest inspects the message type before decoding the whole payload.
// Only requests are accepted; anything else is an envelope error.
func decodeRequest(payload []byte) (*requestMessage, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedMessage)
	}

	kind := gjson.GetBytes(payload, "type").String()
	if kind != requestMessageType {
		return nil, fmt.Errorf("%w: unknown `type` field %q", ErrUnsupportedMessageType, kind)
	}

	var req requestMessage
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	return &req, nil
}
