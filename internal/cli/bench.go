package cli

import (
	"github.com/sirupsen/logrus"

	"github.com/kjdev/raid6store/internal/bench"
)

func runBench() error {
	report, err := bench.Run(benchN, benchM, benchSize, 64, benchSeed)
	if err != nil {
		return err
	}
	logrus.Infof("bench: N=%d M=%d chunk=%d stripes=%d parity_matches=%v our=%s reedsolomon=%s",
		report.N, report.M, report.ChunkSize, report.Stripes, report.ParityMatches, report.OurDuration, report.RefDuration)
	return nil
}
