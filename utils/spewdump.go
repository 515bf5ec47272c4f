package utils

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.SortKeys = true
}

func Dump(w io.Writer, a ...interface{}) {
	fmt.Fprintln(w, spewConfig.Sdump(a...))
}

// LogDump writes the dump to the process logger at debug level.
func LogDump(msg string, a ...interface{}) {
	Log().Debug(msg + "\n" + spewConfig.Sdump(a...))
}
