package lockfile

import "github.com/rotisserie/eris"

var ErrUnresolvedDependency = eris.New("unresolved dependency")
