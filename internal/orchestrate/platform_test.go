package orchestrate

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
)

func TestHost(t *testing.T) {
	h := Host()
	if !strings.Contains(h, "/") {
		t.Fatalf("Host = %q, want os/arch pair", h)
	}
}

func TestTargetPlatforms(t *testing.T) {
	tests := []struct {
		name      string
		declared  []string
		requested []string
		want      []string
		wantErr   bool
	}{
		{
			name:     "all declared",
			declared: []string{"linux/amd64", "linux/arm64"},
			want:     []string{"linux/amd64", "linux/arm64"},
		},
		{
			name:      "requested subset",
			declared:  []string{"linux/amd64", "linux/arm64"},
			requested: []string{"linux/arm64"},
			want:      []string{"linux/arm64"},
		},
		{
			name:     "declared platforms normalized",
			declared: []string{"linux/x86_64"},
			want:     []string{"linux/amd64"},
		},
		{
			name:     "duplicates collapse",
			declared: []string{"linux/amd64", "linux/x86_64"},
			want:     []string{"linux/amd64"},
		},
		{
			name:      "requested platform normalized before matching",
			declared:  []string{"linux/amd64"},
			requested: []string{"linux/x86_64"},
			want:      []string{"linux/amd64"},
		},
		{
			name:      "requested platform not declared",
			declared:  []string{"linux/amd64"},
			requested: []string{"windows/amd64"},
			wantErr:   true,
		},
		{
			name:     "garbage declared spec",
			declared: []string{"not a platform!"},
			wantErr:  true,
		},
		{
			name:      "garbage requested spec",
			declared:  []string{"linux/amd64"},
			requested: []string{"///"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := targetPlatforms(tt.declared, tt.requested)
			if tt.wantErr {
				if !eris.Is(err, ErrUnsupportedPlatform) {
					t.Fatalf("err = %v, want ErrUnsupportedPlatform", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("platforms = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("platforms[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTargetPlatformsDefaultsToHost(t *testing.T) {
	got, err := targetPlatforms(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != Host() {
		t.Fatalf("platforms = %v, want [%s]", got, Host())
	}
}

func TestPlatformSlug(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"linux/amd64", "linux-amd64"},
		{"darwin/arm64", "darwin-arm64"},
		{"linux/arm/v7", "linux-arm-v7"},
	}

	for _, tt := range tests {
		if got := platformSlug(tt.platform); got != tt.want {
			t.Errorf("platformSlug(%q) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}
