package kvengine

import stdErrors "errors"

// ErrEngineClosed is returned by every operation once Close has
// succeeded.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")
