package sandbox

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// PackDir packs a local directory tree into a gzipped tarball with paths
// relative to dir. Returns ok=false (and no error) when the directory does
// not exist: a missing asset tree is a valid state, not a fault.
func PackDir(dir string) (data []byte, ok bool, err error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sandbox: stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, false, fmt.Errorf("sandbox: %q is not a directory", dir)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		fi, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			return tw.WriteHeader(&tar.Header{
				Typeflag: tar.TypeDir,
				Name:     rel + "/",
				Mode:     int64(fi.Mode().Perm()),
			})
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		hdr := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     rel,
			Mode:     int64(fi.Mode().Perm()),
			Size:     fi.Size(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if walkErr != nil {
		return nil, false, fmt.Errorf("sandbox: pack %q: %w", dir, walkErr)
	}

	if err := tw.Close(); err != nil {
		return nil, false, fmt.Errorf("sandbox: pack %q: %w", dir, err)
	}
	if err := gw.Close(); err != nil {
		return nil, false, fmt.Errorf("sandbox: pack %q: %w", dir, err)
	}
	return buf.Bytes(), true, nil
}
