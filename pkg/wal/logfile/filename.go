package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	logSuffix = ".log"
	lockName  = "LOCK"
)

// FileName returns the path of log number in dir.
func FileName(dir string, number uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%06d%s", number, logSuffix))
}

func IsLogFile(name string) bool {
	return strings.HasSuffix(name, logSuffix)
}

// ParseFileName returns the log number encoded in a log file's base name.
func ParseFileName(name string) (uint64, bool) {
	base := filepath.Base(name)
	if !IsLogFile(base) {
		return 0, false
	}
	number, err := strconv.ParseUint(strings.TrimSuffix(base, logSuffix), 10, 64)
	if err != nil {
		return 0, false
	}
	return number, true
}

// List returns the numbers of the log files in dir, ascending.
func List(dir string) ([]uint64, error) {
	dents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var numbers []uint64
	for _, d := range dents {
		if d.IsDir() {
			continue
		}
		if number, ok := ParseFileName(d.Name()); ok {
			numbers = append(numbers, number)
		}
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers, nil
}
