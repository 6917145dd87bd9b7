package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/seed"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [seed-file...]",
	Short: "Check seed files against the sexagenary cycles",
	Long: `Checks every record's day pillar against the day count from 1900-01-01 (甲戌),
looks for missing or duplicate dates, and checks that year and month pillars
only advance on solar-term days. Prints each file's BLAKE3 checksum for use as
ALMANAC_SEED_CHECKSUM.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		records, err := seed.LoadFile(path, seed.Options{})
		if err != nil {
			fmt.Fprintf(out, "ERROR %s: %v\n", path, err)
			failed++
			continue
		}

		issues := seed.Verify(records)
		for _, issue := range issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
		if len(issues) > 0 {
			fmt.Fprintf(out, "FAIL %s: %d records, %d problems\n", path, len(records), len(issues))
			failed++
			continue
		}
		fmt.Fprintf(out, "OK %s: %d records, blake3 %s\n", path, len(records), seed.Checksum(raw))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", failed, len(args))
	}
	return nil
}
