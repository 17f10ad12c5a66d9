// Package validation provides upload validation for the video intake surface.
package validation

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrDisallowedFileType is returned when a file type is not in the allowlist.
var ErrDisallowedFileType = errors.New("file type not allowed")

// allowedExtensions is the extension allowlist for uploaded videos.
var allowedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

// allowedMIMETypes is the content allowlist. Matroska and WebM share an EBML
// header, so both map here.
var allowedMIMETypes = map[string]bool{
	"video/mp4":        true,
	"video/webm":       true,
	"video/quicktime":  true,
	"video/x-matroska": true,
	"video/avi":        true,
	"video/x-msvideo":  true,
}

// magicBytesBufferSize is the number of bytes read for content detection.
const magicBytesBufferSize = 512

// AllowedExtension reports whether the filename carries an accepted video
// extension.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ValidateMagicBytes checks a file's content by its magic bytes. It reads up
// to 512 bytes, detects the MIME type, and seeks the reader back to the
// start.
func ValidateMagicBytes(reader io.ReadSeeker) (mime string, allowed bool, err error) {
	buf := make([]byte, magicBytesBufferSize)
	n, err := reader.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}
	if n == 0 {
		return "application/octet-stream", false, nil
	}
	buf = buf[:n]

	mime = detectVideoMagicBytes(buf)
	if mime == "" {
		mime = http.DetectContentType(buf)
	}
	return mime, allowedMIMETypes[mime], nil
}

// detectVideoMagicBytes handles container formats http.DetectContentType
// does not recognize reliably.
func detectVideoMagicBytes(buf []byte) string {
	if len(buf) < 4 {
		return ""
	}

	// WebM/Matroska: EBML header (0x1A 0x45 0xDF 0xA3)
	if buf[0] == 0x1A && buf[1] == 0x45 && buf[2] == 0xDF && buf[3] == 0xA3 {
		if containsDocType(buf, "matroska") {
			return "video/x-matroska"
		}
		return "video/webm"
	}

	// AVI: RIFF....AVI (bytes 0-3: RIFF, bytes 8-11: "AVI ")
	if len(buf) >= 12 {
		if buf[0] == 'R' && buf[1] == 'I' && buf[2] == 'F' && buf[3] == 'F' &&
			buf[8] == 'A' && buf[9] == 'V' && buf[10] == 'I' && buf[11] == ' ' {
			return "video/avi"
		}
	}

	// MP4/QuickTime: ftyp box at offset 4.
	if len(buf) >= 12 {
		if buf[4] == 'f' && buf[5] == 't' && buf[6] == 'y' && buf[7] == 'p' {
			if string(buf[8:12]) == "qt  " {
				return "video/quicktime"
			}
			return "video/mp4"
		}
	}

	return ""
}

// containsDocType scans an EBML header prefix for the given DocType string.
func containsDocType(buf []byte, docType string) bool {
	limit := len(buf)
	if limit > 64 {
		limit = 64
	}
	return strings.Contains(string(buf[:limit]), docType)
}
