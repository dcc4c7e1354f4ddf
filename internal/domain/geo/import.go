package geo

import (
	"bufio"
	"math"
	"strconv"
	"strings"
)

// ParseDelimited parses a delimited-text airport table whose columns are
// code, name, latitude, longitude in that fixed order. The delimiter is
// detected per file: tab when present on the first data line, comma
// otherwise. Rows that do not yield a code and two numeric coordinates are
// returned as records that import validation will drop.
func ParseDelimited(text string) []Airport {
	var records []Airport

	scanner := bufio.NewScanner(strings.NewReader(text))
	delimiter := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if delimiter == "" {
			delimiter = ","
			if strings.Contains(line, "\t") {
				delimiter = "\t"
			}
			// Skip a header row if the coordinate columns are not numeric.
			if looksLikeHeader(line, delimiter) {
				continue
			}
		}
		records = append(records, parseLine(line, delimiter))
	}
	return records
}

func looksLikeHeader(line, delimiter string) bool {
	fields := strings.Split(line, delimiter)
	if len(fields) < 4 {
		return false
	}
	_, latErr := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	_, lonErr := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	return latErr != nil && lonErr != nil
}

func parseLine(line, delimiter string) Airport {
	fields := strings.Split(line, delimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var a Airport
	if len(fields) > 0 {
		a.Code = fields[0]
	}
	if len(fields) > 1 {
		a.Name = fields[1]
	}
	// Missing or non-numeric coordinates become NaN so the record fails
	// import validation rather than silently landing on (0, 0).
	a.Latitude = parseCoord(fields, 2)
	a.Longitude = parseCoord(fields, 3)
	return a
}

func parseCoord(fields []string, idx int) float64 {
	if idx >= len(fields) || fields[idx] == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
