package extract

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/pkg/errors"
)

// IsArchive reports whether the file name carries an extension the
// extractor understands.
func IsArchive(name string) bool {
	return strings.HasSuffix(name, ".zip") ||
		strings.HasSuffix(name, ".tar.gz") ||
		strings.HasSuffix(name, ".tgz") ||
		strings.HasSuffix(name, ".tar")
}

// Extract unpacks the archive at archivePath into destFolder. The archive
// format is chosen by file extension. Any entry that would escape
// destFolder fails the whole extraction.
func Extract(archivePath, destFolder string) error {
	if strings.HasSuffix(archivePath, ".zip") {
		return Unzip(archivePath, destFolder)
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return perrors.Wrap(err, "open archive")
	}
	defer file.Close()

	return Untar(file, destFolder)
}

// Unzip extracts a zip archive into destFolder.
func Unzip(zipPath, destFolder string) error {
	zipReader, err := zip.OpenReader(zipPath)
	if err != nil {
		return perrors.Wrap(err, "open zip")
	}
	defer zipReader.Close()

	for _, zipFile := range zipReader.File {
		outFileName, err := sanitizePath(destFolder, zipFile.Name)
		if err != nil {
			return err
		}

		if zipFile.FileInfo().IsDir() {
			if err := os.MkdirAll(outFileName, os.ModePerm); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(outFileName), os.ModePerm); err != nil {
			return err
		}

		err = writeZipEntry(zipFile, outFileName)
		if err != nil {
			return perrors.Wrapf(err, "extract %s", zipFile.Name)
		}
	}

	return nil
}

func writeZipEntry(zipFile *zip.File, outFileName string) error {
	entryReader, err := zipFile.Open()
	if err != nil {
		return err
	}
	defer entryReader.Close()

	outFile, err := os.OpenFile(outFileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, zipFile.Mode().Perm()|0600)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, entryReader); err != nil {
		return err
	}
	return outFile.Close()
}

// Untar extracts a tar stream, transparently decompressing gzip, into
// destFolder.
func Untar(origReader io.Reader, destFolder string) error {
	// read ahead
	bufioReader := bufio.NewReaderSize(origReader, 1024*1024)
	testBytes, err := bufioReader.Peek(2) // read 2 bytes
	if err != nil {
		return err
	}

	// is gzipped?
	var reader io.Reader
	if testBytes[0] == 31 && testBytes[1] == 139 {
		gzipReader, err := gzip.NewReader(bufioReader)
		if err != nil {
			return perrors.Errorf("error decompressing: %v", err)
		}
		defer gzipReader.Close()

		reader = gzipReader
	} else {
		reader = bufioReader
	}

	tarReader := tar.NewReader(reader)
	for {
		shouldContinue, err := extractNext(tarReader, destFolder)
		if err != nil {
			return perrors.Wrap(err, "decompress")
		} else if !shouldContinue {
			return nil
		}
	}
}

func extractNext(tarReader *tar.Reader, destFolder string) (bool, error) {
	header, err := tarReader.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, perrors.Wrap(err, "tar reader next")
		}

		return false, nil
	}

	outFileName, err := sanitizePath(destFolder, header.Name)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(outFileName), os.ModePerm); err != nil {
		return false, err
	}

	if header.Typeflag == tar.TypeDir {
		if err := os.MkdirAll(outFileName, os.ModePerm); err != nil {
			return false, err
		}

		return true, nil
	} else if header.Typeflag != tar.TypeReg {
		// symlinks and hardlinks could point outside the output
		// directory, skip them
		return true, nil
	}

	outFile, err := os.OpenFile(outFileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, os.FileMode(0644))
	if err != nil {
		return false, perrors.Wrapf(err, "create %s", outFileName)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, tarReader); err != nil {
		return false, perrors.Wrapf(err, "io copy tar reader %s", outFileName)
	}
	if err := outFile.Close(); err != nil {
		return false, perrors.Wrapf(err, "out file close %s", outFileName)
	}

	_ = os.Chmod(outFileName, header.FileInfo().Mode()|0600)
	return true, nil
}

// sanitizePath joins an archive entry name onto destFolder and fails when
// the result escapes destFolder.
func sanitizePath(destFolder, entryName string) (string, error) {
	outFileName := filepath.Join(destFolder, filepath.FromSlash(entryName))

	rel, err := filepath.Rel(destFolder, outFileName)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", perrors.Errorf("archive entry %s escapes the output directory", entryName)
	}

	return outFileName, nil
}
