package orchestrate

import "github.com/rotisserie/eris"

var (
	ErrMissingBinary       = eris.New("missing binary")
	ErrUnsupportedPlatform = eris.New("unsupported platform")
)
