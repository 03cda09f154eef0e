package pdf

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	Watermark     = "watermark.png"
	RejectStamp   = "rejectstamp.png"
	ApprovedStamp = "approvedstamp.png"
)

type ImageSource interface {
	Image(name string) ([]byte, error)
}

// DirImages читает картинки из каталога ассетов.
type DirImages string

func (d DirImages) Image(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(string(d), name))
	return data, errors.Wrapf(err, "load image %s", name)
}
