package orchestrate

import (
	"strings"

	"github.com/containerd/platforms"
	"github.com/rotisserie/eris"
)

// Returns the host platform as a normalized "os/arch" specifier.
func Host() string {
	return platforms.Format(platforms.Normalize(platforms.DefaultSpec()))
}

// Normalizes a platform specifier (e.g. "Linux/x86_64" to "linux/amd64").
func normalize(spec string) (string, error) {
	p, err := platforms.Parse(spec)
	if err != nil {
		return "", eris.Wrapf(ErrUnsupportedPlatform, "%q: %v", spec, err)
	}
	return platforms.Format(platforms.Normalize(p)), nil
}

// Computes the set of platforms to build for.
//
// The declared list comes from the manifest; an empty declaration means
// host-only. When the caller requests specific platforms, each must be a
// member of the declared set, otherwise the evaluation is rejected before
// any build attempt.
func targetPlatforms(declared, requested []string) ([]string, error) {
	if len(declared) == 0 {
		declared = []string{Host()}
	}

	supported := make(map[string]bool, len(declared))
	targets := make([]string, 0, len(declared))

	for _, spec := range declared {
		p, err := normalize(spec)
		if err != nil {
			return nil, err
		}
		if !supported[p] {
			supported[p] = true
			targets = append(targets, p)
		}
	}

	if len(requested) == 0 {
		return targets, nil
	}

	selected := make([]string, 0, len(requested))
	for _, spec := range requested {
		p, err := normalize(spec)
		if err != nil {
			return nil, err
		}
		if !supported[p] {
			return nil, eris.Wrapf(ErrUnsupportedPlatform,
				"%s is not in the supported platform list (%s)", p, strings.Join(targets, ", "))
		}
		selected = append(selected, p)
	}

	return selected, nil
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func platformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}

// Returns the normalized declared platforms for display purposes.
func DeclaredPlatforms(declared []string) ([]string, error) {
	return targetPlatforms(declared, nil)
}
