package scanner

import (
	"os"
	"path/filepath"
	"runtime"
)

// CommonHidingSpots returns the directories worth sweeping in auto-scan
// mode: the places files get stashed after a compromise or in a CTF image.
// Only paths that exist are returned, deduplicated in order.
func CommonHidingSpots() []string {
	var spots []string
	if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			spots = append(spots,
				profile,
				filepath.Join(profile, "Documents"),
				filepath.Join(profile, "Downloads"),
				filepath.Join(profile, "Desktop"),
				filepath.Join(profile, "AppData", "Local", "Temp"),
			)
		}
		if temp := os.Getenv("TEMP"); temp != "" {
			spots = append(spots, temp)
		}
		spots = append(spots, `C:\ProgramData`)
	} else {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			spots = append(spots, home)
		}
		spots = append(spots, "/tmp", "/var/tmp", "/var/log", "/etc", "/opt", "/usr/local")
	}

	seen := make(map[string]struct{}, len(spots))
	out := make([]string, 0, len(spots))
	for _, spot := range spots {
		if _, dup := seen[spot]; dup {
			continue
		}
		seen[spot] = struct{}{}
		if info, err := os.Stat(spot); err == nil && info.IsDir() {
			out = append(out, spot)
		}
	}
	return out
}
