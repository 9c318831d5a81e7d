package shared

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	totalLinePrefixConstant           = "TOTAL"
	percentSignConstant               = "%"
	missingTotalLineMessageConstant   = "coverage report contains no TOTAL line"
	malformedTotalLineMessageConstant = "coverage report TOTAL line has no percentage field"
	reportScanFailureTemplateConstant = "failed to scan coverage report: %w"
)

// ErrNoTotalLine indicates the coverage report lacked a TOTAL summary line.
var ErrNoTotalLine = errors.New(missingTotalLineMessageConstant)

// ErrMalformedTotalLine indicates the TOTAL summary line lacked a trailing percentage field.
var ErrMalformedTotalLine = errors.New(malformedTotalLineMessageConstant)

// ExtractTotalPercentage parses the percentage from the last TOTAL summary line of a
// coverage report, as emitted by coverage tools that finish with a line such as
// "TOTAL 1543 120 92%".
func ExtractTotalPercentage(reportContent []byte) (float64, error) {
	var totalLineFields []string

	lineScanner := bufio.NewScanner(bytes.NewReader(reportContent))
	for lineScanner.Scan() {
		lineFields := strings.Fields(lineScanner.Text())
		if len(lineFields) == 0 {
			continue
		}
		if lineFields[0] == totalLinePrefixConstant {
			totalLineFields = lineFields
		}
	}

	if scanError := lineScanner.Err(); scanError != nil {
		return 0, fmt.Errorf(reportScanFailureTemplateConstant, scanError)
	}

	if totalLineFields == nil {
		return 0, ErrNoTotalLine
	}

	lastField := totalLineFields[len(totalLineFields)-1]
	if !strings.HasSuffix(lastField, percentSignConstant) {
		return 0, ErrMalformedTotalLine
	}

	percentageValue, parseError := strconv.ParseFloat(strings.TrimSuffix(lastField, percentSignConstant), 64)
	if parseError != nil {
		return 0, ErrMalformedTotalLine
	}

	return percentageValue, nil
}
