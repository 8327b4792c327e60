package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"timetable-export/internal/domain"
)

// FileSource reads an already-solved assignment table from a CSV
// file. It backs the offline export command and keeps the pipeline
// runnable without a solver service.
type FileSource struct {
	Path string
}

var csvHeaders = []string{
	"CourseID", "CourseName", "SectionID", "Session",
	"Day", "StartTime", "EndTime", "Room", "Instructor",
}

func (s FileSource) Generate(ctx context.Context) ([]domain.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(csvHeaders)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read assignments header: %w", err)
	}
	for i, want := range csvHeaders {
		if header[i] != want {
			return nil, fmt.Errorf("assignments file: column %d is %q, want %q", i, header[i], want)
		}
	}

	var records []domain.Assignment
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read assignments row: %w", err)
		}
		records = append(records, domain.Assignment{
			CourseID:   row[0],
			CourseName: row[1],
			SectionID:  row[2],
			Session:    row[3],
			Day:        row[4],
			StartTime:  row[5],
			EndTime:    row[6],
			Room:       row[7],
			Instructor: row[8],
		})
	}
	return records, nil
}
