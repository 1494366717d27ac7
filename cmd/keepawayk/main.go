// Command keepawayk keeps a session from going idle by performing small,
// randomized input actions at a fixed interval.
package main

import (
	"fmt"
	"os"

	"github.com/stigoleg/keepawayk/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		os.Exit(1)
	}
}
