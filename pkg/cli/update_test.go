package cli

import (
	"encoding/json"
	"testing"
)

const releasesJSON = `[
  {"tag_name": "v2.0.0-rc.1", "prerelease": true,
   "assets": [{"name": "photofix_linux_amd64.tar.gz", "browser_download_url": "https://example.com/rc"}]},
  {"tag_name": "nightly", "draft": true},
  {"tag_name": "v1.2.0",
   "assets": [{"name": "checksums.txt", "browser_download_url": "https://example.com/1.2.0/sums"}]},
  {"tag_name": "release", "name": "photofix 1.10.0",
   "assets": [
     {"name": "checksums.txt", "browser_download_url": "https://example.com/1.10.0/sums"},
     {"name": "photofix_darwin_arm64.tar.gz", "browser_download_url": "https://example.com/1.10.0/darwin"}
   ]},
  {"tag_name": "not-a-version"}
]`

func TestLatestRelease(t *testing.T) {
	var releases []githubRelease
	if err := json.Unmarshal([]byte(releasesJSON), &releases); err != nil {
		t.Fatal(err)
	}
	latest, ok := latestRelease(releases)
	if !ok {
		t.Fatal("no release picked")
	}
	if got := latest.Version.String(); got != "1.10.0" {
		t.Fatalf("picked %s, want 1.10.0", got)
	}
	if latest.AssetURL != "https://example.com/1.10.0/darwin" {
		t.Fatalf("asset = %s", latest.AssetURL)
	}

	if _, ok := latestRelease(releases[:2]); ok {
		t.Fatal("draft or prerelease picked")
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("v1.4.2")
	if err != nil || v.String() != "1.4.2" {
		t.Fatalf("parseVersion = %v, %v", v, err)
	}
	if _, err := parseVersion("dev"); err == nil {
		t.Fatal("dev parsed as a version")
	}
	if _, err := parseVersion(Version); err != nil {
		t.Fatalf("built-in Version %q is not semver: %v", Version, err)
	}
}
