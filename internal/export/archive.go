package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"

	"timetable-export/internal/domain"
)

// ArchiveName is the filename the HTTP layer hands out for the bundle.
const ArchiveName = "timetables.zip"

const masterDocument = "Main_Timetable.xlsx"

// BuildArchive renders the master document plus one flat document per
// partition and packages them into a single zip. Any emission failure
// aborts the whole archive; a partial bundle is never returned. The
// returned file count always equals the number of entries written.
func BuildArchive(records []domain.Assignment, emitter *Emitter, masterLayout string) ([]byte, int, error) {
	partitions := Partition(records)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	written := 0
	add := func(name string, subset []domain.Assignment, layout string) error {
		doc, err := emitter.Emit(subset, layout)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(doc); err != nil {
			return fmt.Errorf("write archive entry %s: %w", name, err)
		}
		written++
		return nil
	}

	if err := add(masterDocument, records, masterLayout); err != nil {
		return nil, 0, err
	}
	for _, year := range partitions.YearOrder {
		name := "Years/Year_" + strconv.Itoa(year) + ".xlsx"
		if err := add(name, partitions.Years[year], LayoutFlat); err != nil {
			return nil, 0, err
		}
	}
	for _, instructor := range partitions.InstructorOrder {
		name := "Instructors/" + SanitizeName(instructor) + ".xlsx"
		if err := add(name, partitions.Instructors[instructor], LayoutFlat); err != nil {
			return nil, 0, err
		}
	}
	for _, room := range partitions.RoomOrder {
		name := "Rooms/" + SanitizeName(room) + ".xlsx"
		if err := add(name, partitions.Rooms[room], LayoutFlat); err != nil {
			return nil, 0, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, 0, fmt.Errorf("close archive: %w", err)
	}

	if written != partitions.FileCount() {
		return nil, 0, fmt.Errorf("archive entry count mismatch: wrote %d, expected %d", written, partitions.FileCount())
	}
	return buf.Bytes(), written, nil
}

// SanitizeName makes a partition value safe as an archive entry name
// by replacing path separators and colons with underscores.
func SanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return replacer.Replace(name)
}
