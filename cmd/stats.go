package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"firestige.xyz/warts/pkg/warts"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show record counts for a warts stream",
	Long: `Read a warts file (or stdin) to the end and print per-type record
counts, total traceroute hops, and unknown-type coverage gaps.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runStatsCommand(args)
	},
}

func runStatsCommand(args []string) {
	in, err := openInput(args)
	if err != nil {
		exitWithError("failed to open input", err)
	}
	defer in.Close()

	counts := map[string]int{}
	var records, hops, unknownBytes int

	r := warts.NewReader(bufio.NewReader(in))
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			exitWithError("decode failed", err)
		}
		records++
		counts[warts.TypeName(rec.Type())]++
		switch v := rec.(type) {
		case *warts.Traceroute:
			hops += len(v.Hops)
		case *warts.Unknown:
			unknownBytes += len(v.Data)
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
	}
	fmt.Fprintf(w, "total records\t%d\n", records)
	fmt.Fprintf(w, "traceroute hops\t%d\n", hops)
	if unknownBytes > 0 {
		fmt.Fprintf(w, "unknown payload bytes\t%d\n", unknownBytes)
	}
	w.Flush()
}
