package journal

import ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"

var errClosed = ferrors.JournalError("journal is closed").Build()
