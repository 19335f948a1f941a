// Package storage fetches raw inbound messages stored by the mail receiver.
package storage

import (
	"errors"
	"path"
	"strings"
)

// ErrEmptyMessageID is returned when a fetch is attempted without a message id.
var ErrEmptyMessageID = errors.New("message id is empty")

// Key returns the object key of a stored message: "<prefix>/<messageID>".
func Key(prefix, messageID string) string {
	return path.Join(strings.Trim(prefix, "/"), messageID)
}
