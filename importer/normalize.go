package importer

import (
	"regexp"
	"strconv"
	"strings"
)

var titleYearRegex = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)\s*$`)

//ParseTitle extracts a trailing 4-digit year in parentheses from a raw movie
//title. Returns the trimmed title, the title with the year suffix stripped and
//the year. Year is 0 when the title carries no such suffix.
func ParseTitle(raw string) (string, string, int) {
	title := strings.TrimSpace(raw)
	matches := titleYearRegex.FindStringSubmatch(title)
	if matches == nil {
		return title, title, 0
	}
	year, _ := strconv.Atoi(matches[2])
	return title, strings.TrimSpace(matches[1]), year
}
