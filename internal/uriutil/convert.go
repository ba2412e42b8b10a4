// Package uriutil converts between file:// URIs and filesystem paths
package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI converts a filesystem path to a file:// URI with percent-encoded
// segments. Relative paths are made absolute first.
func PathToURI(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	host := ""
	if runtime.GOOS == "windows" && strings.HasPrefix(absPath, `\\`) {
		// UNC: \\server\share\dir -> file://server/share/dir
		rest := filepath.ToSlash(strings.TrimPrefix(absPath, `\\`))
		host, absPath, _ = strings.Cut(rest, "/")
		absPath = "/" + absPath
	}

	absPath = filepath.ToSlash(absPath)
	if !strings.HasPrefix(absPath, "/") {
		absPath = "/" + absPath
	}

	segments := strings.Split(absPath, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "file://" + host + strings.Join(segments, "/")
}

// URIToPath converts a file:// URI to a filesystem path. Strings that are not
// file URIs are treated leniently as paths.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		path := strings.TrimPrefix(uri, "file://")
		return filepath.FromSlash(trimDriveSlash(path))
	}

	path := parsed.Path
	if parsed.Host != "" && parsed.Host != "localhost" {
		if runtime.GOOS == "windows" {
			return `\\` + parsed.Host + filepath.FromSlash(path)
		}
		return parsed.Host + path
	}
	return filepath.FromSlash(trimDriveSlash(path))
}

// trimDriveSlash turns /C:/dir into C:/dir
func trimDriveSlash(path string) string {
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		return path[1:]
	}
	return path
}
