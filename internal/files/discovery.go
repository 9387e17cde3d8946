package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var payrollFilePattern = regexp.MustCompile(`(?i)^payroll_(\d{4})\.(csv|xlsx)$`)

// SourceFile is a discovered yearly payroll source.
type SourceFile struct {
	Name string
	Year int
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindPayrollFiles finds payroll_<year>.csv and payroll_<year>.xlsx files in
// dir, ordered by year. When a year has both, the CSV is used.
func (d *Discovery) FindPayrollFiles(dir string) ([]SourceFile, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	byYear := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := payrollFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if prev, ok := byYear[year]; ok && strings.EqualFold(filepath.Ext(prev), ".csv") {
			continue
		}
		byYear[year] = entry.Name()
	}

	files := make([]SourceFile, 0, len(byYear))
	for year, name := range byYear {
		files = append(files, SourceFile{Name: name, Year: year})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Year < files[j].Year
	})

	return files, nil
}

// Names returns the file names in order.
func Names(files []SourceFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
