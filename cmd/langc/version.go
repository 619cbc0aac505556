// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var version = semver.Version{
	Major: 0,
	Minor: 1,
	Patch: 0,
	Build: semver.Commit(),
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of this application",
	Long:  `All software has versions. This is our application's version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version.String())
	},
}
