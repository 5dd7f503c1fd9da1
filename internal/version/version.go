package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/modelgate/admin-api/internal/logger"
)

// AppVersion is overridden at build time via -ldflags.
var AppVersion = "v0.0.0"

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdates compares the running build against the latest GitHub
// release and logs a warning when it is behind. Failures are silent; this is
// best-effort startup advice, not a dependency.
func CheckForUpdates() {
	url := "https://api.github.com/repos/modelgate/admin-api/releases/latest"

	client := http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	current, err := version.NewVersion(AppVersion)
	if err != nil {
		return
	}

	latest, err := version.NewVersion(release.TagName)
	if err != nil {
		return
	}

	if current.LessThan(latest) {
		logger.Warn(fmt.Sprintf("running outdated version %s; latest is %s", AppVersion, release.TagName))
	}
}
