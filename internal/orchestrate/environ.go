package orchestrate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/setrixhq/forge/internal/lockfile"
)

// Assembles the deterministic build environment from the lock state.
//
// Every pinned dependency is exported as FORGE_DEP_<NAME> pointing at its
// store path, and SOURCE_DATE_EPOCH is fixed from the lock's newest
// snapshot timestamp. Entries are sorted so two evaluations with the same
// lock produce an identical environment.
func buildEnviron(lock *lockfile.File, deps map[string]string) []string {
	env := make([]string, 0, len(deps)+1)

	for name, path := range deps {
		env = append(env, "FORGE_DEP_"+envKey(name)+"="+path)
	}
	sort.Strings(env)

	return append(env, "SOURCE_DATE_EPOCH="+strconv.FormatInt(lock.Epoch(), 10))
}

// Maps a dependency name onto an environment variable key fragment.
func envKey(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)

	return strings.ToUpper(mapped)
}
