package main

import "github.com/Mohsinsiddi/tokendeploy/cmd"

func main() {
	cmd.Execute()
}
