package main

import "surveydesk/cmd/surveyd/cmd"

func main() {
	cmd.Execute()
}
