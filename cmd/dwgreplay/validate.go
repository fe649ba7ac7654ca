package main

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/gogpu/dwgdraw/internal/fixture"
	"github.com/gogpu/dwgdraw/internal/parallel"
)

var validateCmd = &cobra.Command{
	Use:   "validate <fixture.yaml>...",
	Short: "Check that fixtures decode",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := termenv.ColorProfile()
		ok := termenv.String("ok").Foreground(p.Color("#22c55e"))
		bad := termenv.String("FAIL").Foreground(p.Color("#ef4444")).Bold()

		workers, _ := cmd.Flags().GetInt("jobs")
		pool := parallel.New(workers)
		defer pool.Close()
		errs := parallel.Map(pool, args, func(path string) error {
			_, err := fixture.LoadFile(path)
			return err
		})

		failed := 0
		for i, path := range args {
			if err := errs[i]; err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", bad, path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ok, path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d fixtures failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().IntP("jobs", "j", 0, "Fixtures decoded in parallel; 0 uses GOMAXPROCS")
	rootCmd.AddCommand(validateCmd)
}
