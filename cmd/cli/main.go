// JourneyLog - Session Journey Reconstruction Tool
//
// JourneyLog is a batch analytics-log analysis tool that reconstructs user
// sessions (launches, screen navigations, actions) from raw log dumps and
// renders them as a readable journey report.
package main

import (
	"os"

	"github.com/journeylog/journeylog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
