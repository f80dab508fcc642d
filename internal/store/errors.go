package store

import (
	"errors"

	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"git.home.luguber.info/inful/statestore/internal/queue"
)

// ErrStoreClosed is returned by operations on a store after Shutdown.
var ErrStoreClosed = ferrors.StoreError("store is shut down").Build()

// queueErr maps a stopped queue to ErrStoreClosed; task panics pass through.
func queueErr(err error) error {
	if errors.Is(err, queue.ErrStopped) {
		return ErrStoreClosed
	}
	return err
}
