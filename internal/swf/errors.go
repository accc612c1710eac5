// SPDX-License-Identifier: MIT

package swf

import "errors"

var (
	// ErrInvalidSignature is returned when the file does not start with FWS, CWS or ZWS.
	ErrInvalidSignature = errors.New("swf: invalid signature")
	// ErrTruncated is returned when the stream ends inside the header or a tag.
	ErrTruncated = errors.New("swf: truncated file")
)
