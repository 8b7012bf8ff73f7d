// splitmp3 segments an audio file into MP3 chunks at silence
// boundaries near a target length, delegating silence detection,
// duration probing, and transcoding to ffmpeg.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
