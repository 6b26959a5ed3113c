// Package main provides the pbdb CLI application.
// pbdb manages the lifecycle of a project-cost staging database
// in PostgreSQL.
package main

import "github.com/projbank/pbdb/cmd"

func main() {
	cmd.Execute()
}
