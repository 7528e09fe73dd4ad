package internal

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/scylladb/go-set/strset"
)

var debianPackageMimeTypes = strset.New(
	"application/vnd.debian.binary-package",
	"application/x-archive",
	"application/x-unix-archive",
)

// CheckDebianPackage sniffs the file content and returns an error when it is not a Debian package (ar archive).
func CheckDebianPackage(path string) error {
	mimeType, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("unable to detect content type of %q: %w", path, err)
	}

	for m := mimeType; m != nil; m = m.Parent() {
		if debianPackageMimeTypes.Has(strings.Split(m.String(), ";")[0]) {
			return nil
		}
	}

	return fmt.Errorf("%q is not a Debian package (detected %s)", path, mimeType.String())
}
