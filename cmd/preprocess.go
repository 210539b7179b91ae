package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// preprocessCmd groups reference-preparation subcommands: helpers that
// shape an input file into something the rest of the tool can consume,
// but that don't touch the distance index itself.
var preprocessCmd = &cobra.Command{
	Use:                        "preprocess",
	Short:                      "Prepare inputs for indexing",
	SuggestionsMinimumDistance: 2,
}

// preprocessSplitRefCmd splits a multi-FASTA reference into one file per
// primary chromosome contig.
var preprocessSplitRefCmd = &cobra.Command{
	Use:   "split-reference",
	Short: "Split a multi-FASTA reference into one file per chromosome",
	Long: `
Reads a multi-FASTA reference and writes one file per primary chromosome
contig (chr1..chr22, chrX, chrY), dropping alt/unplaced/decoy contigs and
the "chr" prefix on the header line.`,
	Run: runPreprocessSplitReference,
}

func init() {
	preprocessSplitRefCmd.Flags().StringP("in", "i", "", "input multi-FASTA reference")
	preprocessSplitRefCmd.Flags().StringP("out-dir", "o", ".", "directory to write one FASTA file per chromosome into")

	preprocessCmd.AddCommand(preprocessSplitRefCmd)
	rootCmd.AddCommand(preprocessCmd)
}

// primaryContigs is the set of headers split-reference keeps; everything
// else (alts, unplaced scaffolds, decoys) is dropped.
var primaryContigs = func() map[string]bool {
	set := make(map[string]bool, 24)
	for i := 1; i <= 22; i++ {
		set[fmt.Sprintf("chr%d", i)] = true
	}
	set["chrX"] = true
	set["chrY"] = true
	return set
}()

func runPreprocessSplitReference(cmd *cobra.Command, args []string) {
	in, _ := cmd.Flags().GetString("in")
	outDir, _ := cmd.Flags().GetString("out-dir")
	if in == "" {
		log.Fatalf("preprocess split-reference: --in is required")
	}

	f, err := os.Open(in)
	if err != nil {
		log.Fatalf("preprocess split-reference: %v", err)
	}
	defer f.Close()

	if err := splitReference(f, outDir); err != nil {
		log.Fatalf("preprocess split-reference: %v", err)
	}
}

func splitReference(r *os.File, outDir string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)

	var out *os.File
	defer func() {
		if out != nil {
			out.Close()
		}
	}()

	written := 0
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			if out != nil {
				out.Close()
				out = nil
			}
			name := strings.TrimPrefix(strings.Fields(line)[0], ">")
			if !primaryContigs[name] {
				continue
			}
			f, err := os.Create(filepath.Join(outDir, strings.TrimPrefix(name, "chr")+".fa"))
			if err != nil {
				return err
			}
			out = f
			written++
			if _, err := fmt.Fprintf(out, ">%s\n", strings.TrimPrefix(name, "chr")); err != nil {
				return err
			}
			continue
		}
		if out != nil {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	log.Printf("wrote %d chromosome files to %s", written, outDir)
	return nil
}
