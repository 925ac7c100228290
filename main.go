// Copyright © 2025 The Lambdust authors

package main

import "github.com/akasaka-miraina/lambdust-sub006/cmd"

func main() {
	cmd.Execute()
}
