// Command errctxlint reports error context stack entries left linked on return.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/mpyw/errctxguard/guardlint"
)

func main() {
	singlechecker.Main(guardlint.Analyzer)
}
