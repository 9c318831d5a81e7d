package main

import (
	"fmt"
	"os"

	"github.com/rootAvish/fabric8-analytics-common/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the covhist command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
