package content

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageBytes bounds a single inline image. The backend keeps images in
// the document itself.
const MaxImageBytes = 5 << 20

// ImageDataURL reads the file at path and returns it as a base64 data URL.
// Values that already are data or http(s) URLs are returned unchanged.
func ImageDataURL(path string) (string, error) {
	if IsInlineImage(path) || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("image %s is %d bytes, larger than the %d byte limit", path, len(data), MaxImageBytes)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", path, mimeType)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImageDataURLs converts every path, stopping at the first failure
func ImageDataURLs(paths []string) ([]string, error) {
	rv := make([]string, 0, len(paths))
	for _, p := range paths {
		u, err := ImageDataURL(p)
		if err != nil {
			return nil, err
		}
		rv = append(rv, u)
	}
	return rv, nil
}

func IsInlineImage(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DescribeImage summarises an image reference for display without dumping
// megabytes of base64 into a terminal.
func DescribeImage(s string) string {
	if !IsInlineImage(s) {
		return s
	}
	header, payload, _ := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	mimeType, _, _ := strings.Cut(header, ";")
	size := base64.StdEncoding.DecodedLen(len(payload))
	return fmt.Sprintf("inline %s, ~%d KiB", mimeType, (size+1023)/1024)
}
