package builder

import "github.com/rotisserie/eris"

var ErrBuildFailure = eris.New("build failed")
