package docker

import (
	"archive/tar"
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"time"
)

// The node image recipe ships inside the binary so EnsureImage needs no
// files on disk next to the executable.
//
//go:embed image/Dockerfile image/entrypoint.sh
var imageFS embed.FS

// buildContext assembles the embedded image recipe into the tar stream the
// engine's build endpoint expects.
func buildContext() (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	add := func(name string, mode int64) error {
		data, err := fs.ReadFile(imageFS, "image/"+name)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", name, err)
		}
		hdr := &tar.Header{
			Name:    name,
			Mode:    mode,
			Size:    int64(len(data)),
			ModTime: time.Unix(0, 0),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("tar header %s: %w", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("tar write %s: %w", name, err)
		}
		return nil
	}

	if err := add("Dockerfile", 0o644); err != nil {
		return nil, err
	}
	if err := add("entrypoint.sh", 0o755); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close build context: %w", err)
	}
	return &buf, nil
}
