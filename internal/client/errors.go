package client

import "errors"

var (
	// ErrTransportFault marks errors carrying a structured fault the
	// remote side sent back for a call.
	ErrTransportFault = errors.New("transport fault")

	// ErrProtocolFault marks framing failures and abnormal stream
	// terminations.
	ErrProtocolFault = errors.New("protocol fault")

	// ErrUploadFailed marks a media upload that did not complete.
	ErrUploadFailed = errors.New("upload failed")

	// ErrUnknownCapability is returned when a permission name has no
	// mapping, before any network traffic happens.
	ErrUnknownCapability = errors.New("unknown capability")
)
