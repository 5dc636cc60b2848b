package pdf

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var ErrConverterNotFound = errors.New("wkhtmltopdf not found")

func executableName() string {
	if runtime.GOOS == "windows" {
		return "wkhtmltopdf.exe"
	}
	return "wkhtmltopdf"
}

// Locate finds the wkhtmltopdf executable. An explicit override wins, then
// the copy bundled under bundleDir/wkhtmltopdf, then PATH. The returned
// error names every location searched.
func Locate(override, bundleDir string) (string, error) {
	searched := make([]string, 0, 3)

	if override != "" {
		if isFile(override) {
			return override, nil
		}
		searched = append(searched, override)
	}

	if bundleDir != "" {
		bundled := filepath.Join(bundleDir, "wkhtmltopdf", executableName())
		if isFile(bundled) {
			return bundled, nil
		}
		searched = append(searched, bundled)
	}

	if path, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return path, nil
	}
	searched = append(searched, "PATH")

	return "", fmt.Errorf("%w (searched: %s)", ErrConverterNotFound, strings.Join(searched, ", "))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
