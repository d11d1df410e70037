package calendar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LoadHolidayFile reads extra holidays from a local text file.
//
// Format, one holiday per line:
//
//	YYYY-MM-DD official|traditional Name
//	# comment
//
// Example: 2025-05-02 official Перенос выходного дня
//
// Malformed lines are logged and skipped.
func LoadHolidayFile(path string, logger *zap.Logger) ([]Holiday, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	holidays, err := ParseHolidays(file, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Holiday file loaded",
		zap.String("file", path),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// ParseHolidays parses the holiday file format from r
func ParseHolidays(r io.Reader, logger *zap.Logger) ([]Holiday, error) {
	scanner := bufio.NewScanner(r)
	var holidays []Holiday

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
			logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		var official bool
		switch parts[1] {
		case "official":
			official = true
		case "traditional":
			official = false
		default:
			logger.Warn("Unknown holiday kind", zap.String("kind", parts[1]))
			continue
		}

		holidays = append(holidays, Holiday{
			Date:       DateOf(date),
			Name:       strings.TrimSpace(parts[2]),
			IsOfficial: official,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading holiday file: %w", err)
	}

	return holidays, nil
}
