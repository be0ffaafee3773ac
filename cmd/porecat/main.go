// cmd/porecat/main.go
package main

import (
	"porecat/internal/app"
	"porecat/internal/appshell"
)

func main() {
	appshell.Main(app.Run)
}
