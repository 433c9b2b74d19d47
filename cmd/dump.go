package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/warts/pkg/warts"
)

var (
	dumpFormat string
	dumpHops   bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Decode a warts stream and print every record",
	Long: `Decode records from a warts file (or stdin) and print them one per
record.

Examples:
  wartsdump dump trace.warts                 # one-line summaries
  wartsdump dump --hops trace.warts          # include per-hop detail
  wartsdump dump -f json trace.warts         # one JSON object per record
  cat trace.warts | wartsdump dump -f yaml   # YAML documents from stdin`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runDumpCommand(args)
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text",
		"output format: text | json | yaml")
	dumpCmd.Flags().BoolVar(&dumpHops, "hops", false,
		"print per-hop detail for traceroute records (text format)")
}

func runDumpCommand(args []string) {
	in, err := openInput(args)
	if err != nil {
		exitWithError("failed to open input", err)
	}
	defer in.Close()

	var print func(warts.Record) error
	switch dumpFormat {
	case "text":
		print = printText
	case "json":
		enc := json.NewEncoder(os.Stdout)
		print = func(rec warts.Record) error { return enc.Encode(rec) }
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		// yaml.v3 ignores encoding.TextMarshaler, so netip addresses
		// are rendered via an intermediate JSON form.
		print = func(rec warts.Record) error {
			raw, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			var doc map[string]interface{}
			if err := json.Unmarshal(raw, &doc); err != nil {
				return err
			}
			return enc.Encode(doc)
		}
	default:
		exitWithError(fmt.Sprintf("unknown format %q (must be text, json or yaml)", dumpFormat), nil)
	}

	r := warts.NewReader(bufio.NewReader(in))
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			exitWithError("decode failed", err)
		}
		if err := print(rec); err != nil {
			exitWithError("output failed", err)
		}
	}
}

func printText(rec warts.Record) error {
	fmt.Println(rec)
	if !dumpHops {
		return nil
	}
	tr, ok := rec.(*warts.Traceroute)
	if !ok {
		return nil
	}
	for i, hop := range tr.Hops {
		fmt.Printf("  %2d  %s", i+1, hop)
		if hop.RTT != nil {
			fmt.Printf("  rtt=%dus", *hop.RTT)
		}
		if labels := hopMPLSLabels(hop); len(labels) > 0 {
			fmt.Printf("  mpls=%v", labels)
		}
		fmt.Println()
	}
	return nil
}

func hopMPLSLabels(hop *warts.TracerouteHop) []uint32 {
	var labels []uint32
	for _, ext := range hop.Extensions {
		for _, l := range ext.MPLSLabelStack() {
			labels = append(labels, l.Label)
		}
	}
	return labels
}
