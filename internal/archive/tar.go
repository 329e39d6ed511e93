// Package archive turns a set of local paths into a lazily generated
// tar stream, consumed chunk by chunk by remote media uploads.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/boot85/idb/internal/protocol"
)

// Result is one element of the chunk sequence. A non-nil Err is the
// final element; the channel closes after it.
type Result struct {
	Data []byte
	Err  error
}

// Stream archives paths into a tar and yields it in chunks of at most
// protocol.MaxChunkSize bytes. The sequence is finite and not
// restartable. With placeInSubfolders every path lands in its own
// numeric subfolder, so same-named files cannot collide.
func Stream(ctx context.Context, paths []string, placeInSubfolders bool) <-chan Result {
	out := make(chan Result)
	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)
		err := writeAll(tw, paths, placeInSubfolders)
		if cerr := tw.Close(); err == nil {
			err = cerr
		}
		_ = pw.CloseWithError(err)
	}()

	go func() {
		defer close(out)
		buf := make([]byte, protocol.MaxChunkSize)
		for {
			n, err := pr.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				select {
				case out <- Result{Data: data}:
				case <-ctx.Done():
					_ = pr.CloseWithError(ctx.Err())
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				select {
				case out <- Result{Err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()

	return out
}

func writeAll(tw *tar.Writer, paths []string, placeInSubfolders bool) error {
	for i, path := range paths {
		name := filepath.Base(path)
		if placeInSubfolders {
			name = filepath.Join(strconv.Itoa(i), name)
		}
		if err := writePath(tw, path, name); err != nil {
			return err
		}
	}
	return nil
}

func writePath(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return filepath.Walk(path, func(sub string, subInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(path, sub)
			if err != nil {
				return err
			}
			return writeEntry(tw, sub, filepath.Join(name, rel), subInfo)
		})
	}
	return writeEntry(tw, path, name, info)
}

func writeEntry(tw *tar.Writer, path, name string, info os.FileInfo) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("tar header for %s: %w", path, err)
	}
	header.Name = filepath.ToSlash(name)
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archiving %s: %w", path, err)
	}
	return nil
}
