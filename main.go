// Command validate-uri-fields reports URI-typed fields in the FAANG indices
// whose values are not valid URLs.
package main

import (
	"os"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
