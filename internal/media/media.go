package media

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

var (
	// ErrUnsupportedType indicates the upload is not an image the server can handle.
	ErrUnsupportedType = eris.New("unsupported image type")
	// ErrTooLarge indicates the upload exceeds the configured size limit.
	ErrTooLarge = eris.New("image too large")
)

// Storage names the backend that holds an uploaded image.
type Storage string

const (
	StorageBucket Storage = "bucket"
	StorageBase64 Storage = "base64"
)

// Upload is an image received from the admin dashboard.
type Upload struct {
	Filename    string
	ContentType string
	Folder      string
	Data        []byte
}

// StoredFile records where an upload ended up.
type StoredFile struct {
	Path    string    `json:"path"`
	URL     string    `json:"url"`
	Type    string    `json:"type"`
	Name    string    `json:"name"`
	Size    int       `json:"size"`
	Storage Storage   `json:"storage"`
	Date    time.Time `json:"date"`
}

// Store persists one image and returns the URL it can be served from.
type Store interface {
	Save(ctx context.Context, objectPath string, upload Upload) (string, error)
}

// objectPath builds "<folder>/<unixmillis>-<filename>".
func objectPath(folder, filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	name = strings.Join(strings.Fields(name), "-")

	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" || strings.Contains(folder, "..") {
		folder = "images"
	}

	return folder + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + name
}
