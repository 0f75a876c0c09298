package domain

import "fmt"

// SidecarType identifies a helper binary
type SidecarType string

const (
	SidecarYTDLP  SidecarType = "yt-dlp"
	SidecarFFmpeg SidecarType = "ffmpeg"
)

// TargetTriple maps a GOOS/GOARCH pair to the triple used in bundled binary names
func TargetTriple(goos, goarch string) (string, error) {
	var arch string
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	default:
		return "", NewError(KindUnsupportedPlatform, "architecture %s", goarch)
	}

	switch goos {
	case "linux":
		return arch + "-unknown-linux-gnu", nil
	case "darwin":
		return arch + "-apple-darwin", nil
	case "windows":
		return arch + "-pc-windows-msvc", nil
	default:
		return "", NewError(KindUnsupportedPlatform, "operating system %s", goos)
	}
}

// BinaryName returns the installed file name of the sidecar
func (s SidecarType) BinaryName(goos, goarch string) (string, error) {
	ext := ""
	if goos == "windows" {
		ext = ".exe"
	}
	switch s {
	case SidecarYTDLP:
		triple, err := TargetTriple(goos, goarch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("yt-dlp-%s%s", triple, ext), nil
	case SidecarFFmpeg:
		return "ffmpeg" + ext, nil
	default:
		return "", NewError(KindSidecarNotFound, "unknown sidecar %s", s)
	}
}

// DownloadURL returns where the sidecar is fetched from on goos
func (s SidecarType) DownloadURL(goos string) (string, error) {
	switch s {
	case SidecarYTDLP:
		switch goos {
		case "windows":
			return "https://github.com/yt-dlp/yt-dlp/releases/latest/download/yt-dlp.exe", nil
		case "darwin":
			return "https://github.com/yt-dlp/yt-dlp/releases/latest/download/yt-dlp_macos", nil
		default:
			return "https://github.com/yt-dlp/yt-dlp/releases/latest/download/yt-dlp", nil
		}
	case SidecarFFmpeg:
		switch goos {
		case "windows":
			return "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip", nil
		case "darwin":
			return "https://evermeet.cx/ffmpeg/getrelease/zip", nil
		default:
			return "", NewError(KindUnsupportedPlatform, "install ffmpeg via your package manager")
		}
	default:
		return "", NewError(KindSidecarNotFound, "unknown sidecar %s", s)
	}
}
