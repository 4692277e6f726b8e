package manifest

import "github.com/rotisserie/eris"

var ErrInvalidManifest = eris.New("invalid manifest")
