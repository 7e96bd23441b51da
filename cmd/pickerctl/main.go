package main

import "github.com/iliyamo/picker-payroll/cmd/pickerctl/commands"

func main() {
	commands.Execute()
}
