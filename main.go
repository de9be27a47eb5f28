// Command joinmaster trims and joins numbered video segments by driving
// ffmpeg and ffprobe.
package main

import (
	"os"

	"github.com/backmassage/joinmaster/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
