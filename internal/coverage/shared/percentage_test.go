package shared_test

import (
	"bufio"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	percentageSubtestTemplateConstant = "%d_%s"
)

func TestExtractTotalPercentage(testInstance *testing.T) {
	testCases := []struct {
		name               string
		reportContent      string
		expectedPercentage float64
		expectedError      error
	}{
		{
			name:               "integer_percentage",
			reportContent:      "Name  Stmts  Miss  Cover\nsrc/api.py  120  12  90%\nTOTAL  120  12  90%\n",
			expectedPercentage: 90,
		},
		{
			name:               "fractional_percentage",
			reportContent:      "TOTAL 1543 120 92.2%\n",
			expectedPercentage: 92.2,
		},
		{
			name:               "last_total_line_wins",
			reportContent:      "TOTAL 10 5 50%\nsrc/worker.py 1 0 100%\nTOTAL 20 2 90%\n",
			expectedPercentage: 90,
		},
		{
			name:               "indented_total_line",
			reportContent:      "   TOTAL   88   8   91%\n",
			expectedPercentage: 91,
		},
		{
			name:          "missing_total_line",
			reportContent: "Name  Stmts  Miss  Cover\nsrc/api.py  120  12  90%\n",
			expectedError: shared.ErrNoTotalLine,
		},
		{
			name:          "total_line_without_percentage",
			reportContent: "TOTAL 120 12\n",
			expectedError: shared.ErrMalformedTotalLine,
		},
		{
			name:          "total_line_with_unparsable_percentage",
			reportContent: "TOTAL 120 12 many%\n",
			expectedError: shared.ErrMalformedTotalLine,
		},
		{
			name:          "empty_report",
			reportContent: "",
			expectedError: shared.ErrNoTotalLine,
		},
		{
			name:          "oversized_line_surfaces_scan_failure",
			reportContent: "TOTAL 10 5 50%\n" + strings.Repeat("x", 70*1024) + "\n",
			expectedError: bufio.ErrTooLong,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(percentageSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			percentageValue, extractionError := shared.ExtractTotalPercentage([]byte(testCase.reportContent))

			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, extractionError, testCase.expectedError)
				return
			}

			require.NoError(testInstance, extractionError)
			require.InDelta(testInstance, testCase.expectedPercentage, percentageValue, 0.0001)
		})
	}
}
