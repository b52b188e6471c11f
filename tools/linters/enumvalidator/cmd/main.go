package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"pandey.app/outreach/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
