package importer

import (
	"fmt"
	"os"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// maxCourseFile bounds the course JSON read from disk.
const maxCourseFile = 32 << 20

// LoadCourseFile reads and decodes a course JSON file in either the
// current or the legacy shape.
func LoadCourseFile(path string) (domain.CourseInput, []byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.CourseInput{}, nil, err
	}
	if info.Size() > maxCourseFile {
		return domain.CourseInput{}, nil, fmt.Errorf("course file %s is larger than %d bytes", path, maxCourseFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CourseInput{}, nil, err
	}
	in, err := domain.DecodeCourseInput(data)
	if err != nil {
		return domain.CourseInput{}, nil, fmt.Errorf("parsing course file: %w", err)
	}
	return in, data, nil
}
