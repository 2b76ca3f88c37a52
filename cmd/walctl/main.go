// walctl writes, dumps and verifies block-framed log files.
package main

import (
	"logwriter/cmd/walctl/app"
)

func main() {
	app.New("walctl").Run()
}
