package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		latest  string
		current string
		want    bool
	}{
		{"v1.2.0", "v1.1.0", true},
		{"v1.1.0", "v1.1.0", false},
		{"v1.0.0", "v1.1.0", false},
		{"1.2.0", "1.1.0", true}, // missing v prefix tolerated
		{"not-a-version", "v1.0.0", false},
		{"v1.0.0", "garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.latest+"_vs_"+tt.current, func(t *testing.T) {
			assert.Equal(t, tt.want, isNewer(tt.latest, tt.current))
		})
	}
}

func TestCheckDevBuildSkipsNetwork(t *testing.T) {
	c := NewChecker(WithBaseURLs("http://127.0.0.1:0", "http://127.0.0.1:0"))
	result, err := c.Check(context.Background(), &CheckInput{Version: "(devel)"})
	require.NoError(t, err)
	assert.False(t, result.UpdateAvailable)
}

func TestCheckAgainstRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/abhisek/skillforge/releases/latest", r.URL.Path)
		fmt.Fprint(w, `{"tag_name": "v1.4.0", "html_url": "https://example.com/rel"}`)
	}))
	defer srv.Close()

	c := NewChecker(WithBaseURLs(srv.URL, srv.URL))
	result, err := c.Check(context.Background(), &CheckInput{Version: "v1.3.0"})
	require.NoError(t, err)

	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "v1.4.0", result.LatestVersion)
	assert.Equal(t, "https://example.com/rel", result.ReleaseURL)
}

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"darwin", "arm64", "skillforge_Darwin_all.tar.gz", false},
		{"darwin", "amd64", "skillforge_Darwin_all.tar.gz", false},
		{"linux", "amd64", "skillforge_Linux_x86_64.tar.gz", false},
		{"linux", "arm64", "skillforge_Linux_arm64.tar.gz", false},
		{"windows", "amd64", "skillforge_Windows_x86_64.zip", false},
		{"linux", "mips", "", true},
		{"plan9", "amd64", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"_"+tt.goarch, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	data := []byte(`
abc123  skillforge_Linux_x86_64.tar.gz
def456  skillforge_Darwin_all.tar.gz

malformed-line
`)
	got := parseChecksums(data)
	assert.Equal(t, "abc123", got["skillforge_Linux_x86_64.tar.gz"])
	assert.Equal(t, "def456", got["skillforge_Darwin_all.tar.gz"])
	assert.Len(t, got, 2)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("release payload")
	sum := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))
	assert.ErrorIs(t, verifyChecksum(data, "deadbeef"), ErrChecksum)
}

func makeTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name, Mode: 0755, Size: int64(len(content)), Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func makeZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractBinary(t *testing.T) {
	payload := []byte("#!/bin/fake-binary")

	got, err := extractBinary(makeTarGz(t, "skillforge", payload), "skillforge_Linux_x86_64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = extractBinary(makeZip(t, "skillforge.exe", payload), "skillforge_Windows_x86_64.zip")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = extractBinary(makeTarGz(t, "README.md", payload), "skillforge_Linux_x86_64.tar.gz")
	require.Error(t, err)
}

func TestUpdateEndToEnd(t *testing.T) {
	payload := []byte("new build")
	archive := makeTarGz(t, "skillforge", payload)
	sum := sha256.Sum256(archive)
	checksums := fmt.Sprintf("%s  skillforge_Linux_x86_64.tar.gz\n", hex.EncodeToString(sum[:]))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/abhisek/skillforge/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "v9.9.9"}`)
	})
	mux.HandleFunc("/abhisek/skillforge/releases/download/v9.9.9/skillforge_Linux_x86_64.tar.gz",
		func(w http.ResponseWriter, r *http.Request) { w.Write(archive) })
	mux.HandleFunc("/abhisek/skillforge/releases/download/v9.9.9/checksums.txt",
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, checksums) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "skillforge")
	require.NoError(t, os.WriteFile(target, []byte("old build"), 0755))

	c := NewChecker(
		WithBaseURLs(srv.URL, srv.URL),
		WithExecPath(func() (string, error) { return target, nil }),
	)

	if name, err := assetName(); err != nil || name != "skillforge_Linux_x86_64.tar.gz" {
		t.Skip("release asset for this platform is not the one the test serves")
	}

	var stages []string
	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"},
		func(p UpdateProgress) { stages = append(stages, p.Stage) })
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Contains(t, stages, "verify")
	assert.Contains(t, stages, "done")
}

func TestUpdateDevBuildRefused(t *testing.T) {
	c := NewChecker()
	err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
	assert.ErrorIs(t, err, ErrDevBuild)
}
