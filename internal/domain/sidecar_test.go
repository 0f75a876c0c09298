package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecarBinaryName(t *testing.T) {
	tests := []struct {
		sidecar SidecarType
		goos    string
		goarch  string
		want    string
	}{
		{SidecarYTDLP, "linux", "amd64", "yt-dlp-x86_64-unknown-linux-gnu"},
		{SidecarYTDLP, "darwin", "arm64", "yt-dlp-aarch64-apple-darwin"},
		{SidecarYTDLP, "windows", "amd64", "yt-dlp-x86_64-pc-windows-msvc.exe"},
		{SidecarFFmpeg, "linux", "amd64", "ffmpeg"},
		{SidecarFFmpeg, "windows", "amd64", "ffmpeg.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := tt.sidecar.BinaryName(tt.goos, tt.goarch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SidecarYTDLP.BinaryName("plan9", "amd64")
	assert.True(t, IsKind(err, KindUnsupportedPlatform))
}

func TestSidecarDownloadURL(t *testing.T) {
	u, err := SidecarYTDLP.DownloadURL("windows")
	require.NoError(t, err)
	assert.Contains(t, u, "yt-dlp.exe")

	u, err = SidecarFFmpeg.DownloadURL("darwin")
	require.NoError(t, err)
	assert.Contains(t, u, "evermeet")

	_, err = SidecarFFmpeg.DownloadURL("linux")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnsupportedPlatform))
	assert.Contains(t, err.Error(), "package manager")
}
