package main

import "github.com/chrisdamba/mealplanner/cmd"

func main() {
	cmd.Execute()
}
