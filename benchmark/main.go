// Package main provides a performance benchmarking tool for the deltascan CLI.
// It generates synthetic inventory pairs of increasing size, measures diff
// execution times over several runs, treating the first run as cold and
// averaging the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - deltascan binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory to place generated inventories and results
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run.
type BenchmarkResult struct {
	Files    int
	Churn    string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	Workers   int
	Runs      int
	FileSizes []int
}

// inventoryFile mirrors the subset of the inventory format the generator emits.
type inventoryFile struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

type inventory struct {
	Files []inventoryFile `json:"files"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:   os.Args[1],
		Timeout:   5 * time.Minute,
		Workers:   8,
		Runs:      4,
		FileSizes: []int{1000, 10000, 100000},
	}

	if _, err := exec.LookPath("deltascan"); err != nil {
		fmt.Println("Prerequisites check failed: deltascan binary not found in PATH")
		os.Exit(1)
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		fmt.Printf("Cannot create work dir: %v\n", err)
		os.Exit(1)
	}

	var results []BenchmarkResult
	for _, n := range config.FileSizes {
		fmt.Printf("Benchmarking %d files...\n", n)
		result, err := benchmarkSize(config, n)
		if err != nil {
			fmt.Printf("Benchmark for %d files failed: %v\n", n, err)
			continue
		}
		results = append(results, result)
	}

	if err := writeResults(filepath.Join(config.WorkDir, "benchmark_results.csv"), results); err != nil {
		fmt.Printf("Cannot write results: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Benchmark complete.")
}

// benchmarkSize generates an inventory pair with n files and times the diff.
func benchmarkSize(config BenchmarkConfig, n int) (BenchmarkResult, error) {
	oldPath := filepath.Join(config.WorkDir, fmt.Sprintf("old_%d.json", n))
	newPath := filepath.Join(config.WorkDir, fmt.Sprintf("new_%d.json", n))
	churn, err := generatePair(oldPath, newPath, n)
	if err != nil {
		return BenchmarkResult{}, err
	}

	var cold time.Duration
	var warmTotal time.Duration
	warmRuns := 0
	for i := 0; i < config.Runs; i++ {
		elapsed, err := timeDiff(config, oldPath, newPath)
		if err != nil {
			return BenchmarkResult{}, err
		}
		if i == 0 {
			cold = elapsed
		} else {
			warmTotal += elapsed
			warmRuns++
		}
	}

	warm := time.Duration(0)
	if warmRuns > 0 {
		warm = warmTotal / time.Duration(warmRuns)
	}
	return BenchmarkResult{
		Files:    n,
		Churn:    churn,
		ColdTime: cold.String(),
		WarmTime: warm.String(),
	}, nil
}

// timeDiff runs one deltascan diff invocation and returns its wall time.
func timeDiff(config BenchmarkConfig, oldPath, newPath string) (time.Duration, error) {
	cmd := exec.Command("deltascan", "diff", oldPath, newPath,
		"--store-backend", "none",
		"--workers", fmt.Sprint(config.Workers),
		"--output", "csv",
		"--output-file", os.DevNull,
	)
	start := time.Now()
	if output, err := cmd.CombinedOutput(); err != nil {
		return 0, fmt.Errorf("diff failed: %v: %s", err, output)
	}
	elapsed := time.Since(start)
	if elapsed > config.Timeout {
		return 0, fmt.Errorf("diff exceeded timeout: %v", elapsed)
	}
	return elapsed, nil
}

// generatePair writes two synthetic inventories with a realistic change mix:
// roughly 5% modified, 2% moved, 1% removed, 1% added. Returns a summary of
// the injected churn.
func generatePair(oldPath, newPath string, n int) (string, error) {
	rng := rand.New(rand.NewSource(int64(n)))

	oldInv := inventory{Files: make([]inventoryFile, 0, n)}
	newInv := inventory{Files: make([]inventoryFile, 0, n)}
	modified, moved, removed := 0, 0, 0
	for i := 0; i < n; i++ {
		f := inventoryFile{
			Path:        fmt.Sprintf("src/pkg%03d/file%06d.go", i%100, i),
			Size:        int64(rng.Intn(100000)),
			Fingerprint: fmt.Sprintf("fp-%06d", i),
		}
		oldInv.Files = append(oldInv.Files, f)

		switch {
		case i%100 < 5: // modified
			f.Fingerprint += "-changed"
			f.Size += 128
			modified++
		case i%100 < 7: // moved
			f.Path = fmt.Sprintf("lib/pkg%03d/file%06d.go", i%100, i)
			moved++
		case i%100 < 8: // removed
			removed++
			continue
		}
		newInv.Files = append(newInv.Files, f)
	}
	added := n / 100
	for i := 0; i < added; i++ {
		newInv.Files = append(newInv.Files, inventoryFile{
			Path:        fmt.Sprintf("src/new/file%06d.go", i),
			Size:        int64(rng.Intn(100000)),
			Fingerprint: fmt.Sprintf("fp-new-%06d", i),
		})
	}

	if err := writeInventory(oldPath, oldInv); err != nil {
		return "", err
	}
	if err := writeInventory(newPath, newInv); err != nil {
		return "", err
	}
	return fmt.Sprintf("%dm/%dv/%dr/%da", modified, moved, removed, added), nil
}

func writeInventory(path string, inv inventory) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// writeResults writes the benchmark results to a CSV file.
func writeResults(path string, results []BenchmarkResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"files", "churn", "cold_time", "warm_time"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write([]string{fmt.Sprint(r.Files), r.Churn, r.ColdTime, r.WarmTime}); err != nil {
			return err
		}
	}
	return nil
}
