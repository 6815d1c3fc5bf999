// Command automap exercises the object mapper: it runs the store demo
// mappings and checks YAML mapping profiles against the demo types.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
