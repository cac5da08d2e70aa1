// Command webconfig resolves layered configuration, with the properties file
// named by WEBCONFIG_LOCATION taking precedence over every other source.
package main

import (
	"fmt"
	"os"

	"github.com/KOMKZ/yogan-webconfig/application"
)

var version = "dev"

func main() {
	app := application.NewCLI(application.WithVersion(version))
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
