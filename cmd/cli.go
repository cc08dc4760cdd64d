package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/patrikhermansson/descry/example"
)

var (
	numPoints int
	dimension int
	k         int
)

// rootCmd runs the synthetic novelty-scoring demo.
var rootCmd = &cobra.Command{
	Use:   "descry",
	Short: "Score synthetic query points against a Gaussian reference cluster",
	Long: "Builds an exact nearest-neighbour index over a synthetic reference cluster and " +
		"scores query points with the NND, LNND and LOF data descriptors.",
	Run: func(cmd *cobra.Command, args []string) {
		example.RunDemo(numPoints, dimension, k)
	},
}

func init() {
	rootCmd.Flags().IntVarP(&numPoints, "points", "n", 1000, "number of reference points")
	rootCmd.Flags().IntVarP(&dimension, "dimension", "d", 8, "vector dimensionality")
	rootCmd.Flags().IntVarP(&k, "k", "k", 5, "number of nearest neighbours")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
