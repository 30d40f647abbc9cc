// main is the entry point for the deltascan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/scanwork/deltascan/cmd"
	"github.com/scanwork/deltascan/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
