package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pummelhq/pummel/internal/metrics"
)

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, rep metrics.Report) {
	fmt.Fprintln(w, "\n--- Load Test Summary ---")
	if rep.NoData {
		fmt.Fprintln(w, "No results recorded.")
		return
	}

	fmt.Fprintf(w, "Total Requests:    %d\n", rep.Total)
	fmt.Fprintf(w, "Successful:        %d\n", rep.Successful)
	fmt.Fprintf(w, "Failed:            %d\n", rep.Failed)
	fmt.Fprintf(w, "Success Rate:      %.2f%%\n", rep.SuccessRate)
	fmt.Fprintf(w, "Duration:          %.2fs\n", rep.DurationSec)
	fmt.Fprintf(w, "Target Rate:       %d req/s\n", rep.TargetRate)
	fmt.Fprintf(w, "Observed Rate:     %.2f req/s\n", rep.ObservedRate)
	fmt.Fprintf(w, "Efficiency:        %.1f%%\n", rep.Efficiency)

	if rep.Latency != nil {
		lat := rep.Latency
		fmt.Fprintln(w, "\nLatency (successful requests):")
		fmt.Fprintf(w, "  Count:           %d\n", lat.Count)
		fmt.Fprintf(w, "  Mean:            %.2fms\n", lat.MeanMs)
		fmt.Fprintf(w, "  Median:          %.2fms\n", lat.MedianMs)
		fmt.Fprintf(w, "  Min:             %.2fms\n", lat.MinMs)
		fmt.Fprintf(w, "  Max:             %.2fms\n", lat.MaxMs)
		fmt.Fprintf(w, "  Std Dev:         %.2fms\n", lat.StdDevMs)

		fmt.Fprintln(w, "\nPercentiles:")
		for _, p := range metrics.PercentileLadder {
			fmt.Fprintf(w, "  P%d:             %.2fms\n", p, lat.Percentiles[p])
		}
	}

	if len(rep.StatusCodes) > 0 {
		fmt.Fprintln(w, "\nStatus Codes:")
		codes := make([]int, 0, len(rep.StatusCodes))
		for code := range rep.StatusCodes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			count := rep.StatusCodes[code]
			share := float64(count) / float64(rep.Total) * 100
			fmt.Fprintf(w, "  %d: %d requests (%.1f%%)\n", code, count, share)
		}
	}

	if len(rep.ErrorKinds) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		kinds := make([]string, 0, len(rep.ErrorKinds))
		for kind := range rep.ErrorKinds {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			count := rep.ErrorKinds[kind]
			share := float64(count) / float64(rep.Total) * 100
			fmt.Fprintf(w, "  %s: %d requests (%.1f%%)\n", kind, count, share)
		}
	}

	fmt.Fprintln(w, "\nLatency Distribution:")
	printBucket(w, "Fast (< 100ms)", rep.Buckets.Fast, rep.Total)
	printBucket(w, "Medium (100-500ms)", rep.Buckets.Medium, rep.Total)
	printBucket(w, "Slow (>= 500ms)", rep.Buckets.Slow, rep.Total)
}

func printBucket(w io.Writer, label string, count, total int) {
	share := 0.0
	if total > 0 {
		share = float64(count) / float64(total) * 100
	}
	fmt.Fprintf(w, "  %-19s %d (%.1f%%)\n", label+":", count, share)
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, rep metrics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
