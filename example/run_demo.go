package example

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/descry/core"
	"github.com/patrikhermansson/descry/flat"
	"github.com/patrikhermansson/descry/lnnd"
	"github.com/patrikhermansson/descry/lof"
	"github.com/patrikhermansson/descry/nnd"
)

// RunDemo builds a flat index over a synthetic Gaussian reference cluster,
// fits the NND, LNND and LOF descriptors against it, and scores a mix of
// in-cluster and planted outlier query points. It prints a score table and
// logs timings.
func RunDemo(numPoints, dimension, k int) {
	fmt.Printf("Generating %d reference points (%d dimensions)\n", numPoints, dimension)
	reference := GenerateCluster(numPoints, dimension, 1.0)

	index := flat.NewFlatIndex(dimension)
	start := time.Now()
	if err := index.BulkAdd(reference); err != nil {
		log.Fatal().Err(err).Msg("BulkAdd failed")
	}
	stats := index.Stats()
	fmt.Printf("Indexed %d vectors in %.2fs; distance: %s\n",
		stats.Count, time.Since(start).Seconds(), stats.Distance)

	descriptors := map[string]core.Descriptor{
		"NND":  nnd.New(core.FixedK(k)),
		"LNND": lnnd.New(core.FixedK(k)),
		"LOF":  lof.New(core.FixedK(k)),
	}

	queries, labels := GenerateQueries(dimension)
	fmt.Printf("Scoring %d query points with k=%d\n", len(queries), k)
	for _, name := range []string{"NND", "LNND", "LOF"} {
		start = time.Now()
		model, err := descriptors[name].Fit(index)
		if err != nil {
			log.Fatal().Err(err).Msgf("Fitting %s failed", name)
		}
		log.Info().Msgf("Fitted %s in %.3fs", name, time.Since(start).Seconds())

		scores, err := model.Query(queries)
		if err != nil {
			log.Fatal().Err(err).Msgf("Querying %s failed", name)
		}
		fmt.Printf("%s scores:\n", name)
		for i, score := range scores {
			fmt.Printf(" -> %-14s %.4f\n", labels[i]+":", score)
		}
	}
}
