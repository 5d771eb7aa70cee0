// Package cli wires the cobra command surface onto internal/engine,
// mirroring the teacher's internal/cobra package: a root command, a
// flags-driven leaf command per operation, and an InitCLI/ExecuteCmd split.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kjdev/raid6store/internal/config"
	"github.com/kjdev/raid6store/internal/engine"
)

var (
	root      string
	length    int
	benchN    int
	benchM    int
	benchSize int
	benchSeed int64
)

var rootCmd = &cobra.Command{
	Use:   "raid6store",
	Short: "A RAID6-style erasure-coded block store",
}

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Encode a file into the store at --root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("cli: reading %s: %w", args[0], err)
		}
		params := config.Default()
		eng, err := engine.Create(root, params)
		if err != nil {
			return err
		}
		if err := eng.Encode(data); err != nil {
			return err
		}
		logrus.Infof("encode: wrote %d bytes to %s", len(data), root)
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read <out>",
	Short: "Read --length bytes back from the store at --root into <out>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(root)
		if err != nil {
			return err
		}
		data, err := eng.Read(length)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("cli: writing %s: %w", args[0], err)
		}
		logrus.Infof("read: wrote %d bytes to %s", len(data), args[0])
		return nil
	},
}

var eraseCmd = &cobra.Command{
	Use:   "erase <disk>...",
	Short: "Simulate loss of one or more disks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(root)
		if err != nil {
			return err
		}
		disks, err := parseDisks(args)
		if err != nil {
			return err
		}
		if err := eng.Erase(disks...); err != nil {
			return err
		}
		logrus.Infof("erase: cleared disks %v", disks)
		return nil
	},
}

var scrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Scan the store for single-symbol corruption",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(root)
		if err != nil {
			return err
		}
		numStripes, err := storedStripeCount(eng)
		if err != nil {
			return err
		}
		corruptions, err := eng.Scrub(numStripes)
		if err != nil {
			return err
		}
		if len(corruptions) == 0 {
			logrus.Info("scrub: no corruption found")
			return nil
		}
		for _, c := range corruptions {
			logrus.Warnf("scrub: stripe %d status=%s disk=%d", c.Stripe, c.Result.Status, c.Result.Disk)
		}
		return nil
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair <disk>...",
	Short: "Reconstruct the named disks across every stripe",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(root)
		if err != nil {
			return err
		}
		disks, err := parseDisks(args)
		if err != nil {
			return err
		}
		numStripes, err := storedStripeCount(eng)
		if err != nil {
			return err
		}
		if err := eng.RepairDisks(disks, numStripes); err != nil {
			return err
		}
		logrus.Infof("repair: rebuilt disks %v across %d stripes", disks, numStripes)
		return nil
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Cross-check the codec against github.com/klauspost/reedsolomon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench()
	},
}

func parseDisks(args []string) ([]int, error) {
	disks := make([]int, 0, len(args))
	for _, a := range args {
		d, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("cli: invalid disk index %q: %w", a, err)
		}
		disks = append(disks, d)
	}
	return disks, nil
}

func storedStripeCount(eng *engine.Engine) (int, error) {
	params := eng.Params()
	length, err := eng.ReadLength()
	if err != nil {
		return 0, err
	}
	stripeBytes := params.N * params.ChunkSize
	n := length / stripeBytes
	if length%stripeBytes != 0 {
		n++
	}
	return n, nil
}

// InitCLI registers every subcommand and its flags on rootCmd.
func InitCLI() *cobra.Command {
	encodeCmd.Flags().StringVar(&root, "root", "", "store root directory")
	readCmd.Flags().StringVar(&root, "root", "", "store root directory")
	readCmd.Flags().IntVar(&length, "length", 0, "number of bytes to read back")
	eraseCmd.Flags().StringVar(&root, "root", "", "store root directory")
	scrubCmd.Flags().StringVar(&root, "root", "", "store root directory")
	repairCmd.Flags().StringVar(&root, "root", "", "store root directory")

	benchCmd.Flags().IntVar(&benchN, "n", 6, "data disks")
	benchCmd.Flags().IntVar(&benchM, "m", 2, "parity disks")
	benchCmd.Flags().IntVar(&benchSize, "size", 16, "chunk size in bytes")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "PRNG seed")

	rootCmd.AddCommand(encodeCmd, readCmd, eraseCmd, scrubCmd, repairCmd, benchCmd)
	for _, c := range []*cobra.Command{encodeCmd, readCmd, eraseCmd, scrubCmd, repairCmd} {
		c.MarkFlagRequired("root")
	}
	return rootCmd
}

// ExecuteCmd runs the root command.
func ExecuteCmd() error {
	return InitCLI().Execute()
}
