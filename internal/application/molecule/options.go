package molecule

import (
	"github.com/turtacn/molgraph/internal/config"
	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/domain/smiles"
)

// ParserFromConfig builds a parser with the limits and valence model of pc.
// Zero fields keep the parser defaults.
func ParserFromConfig(pc config.ParserConfig) *smiles.Parser {
	opts := smiles.DefaultOptions()
	if pc.MaxInputLength > 0 {
		opts.MaxInputLength = pc.MaxInputLength
	}
	if pc.MaxExplicitHydrogens > 0 {
		opts.MaxExplicitHydrogens = pc.MaxExplicitHydrogens
	}
	if pc.MaxCharge > 0 {
		opts.MaxCharge = pc.MaxCharge
	}
	if pc.AromaticBondElectrons > 0 {
		opts.Valence = domainMol.ValenceModel{
			AromaticBondElectrons: pc.AromaticBondElectrons,
			AromaticAtomPenalty:   int(pc.AromaticAtomPenalty),
			Elements:              opts.Elements,
		}
	}
	return smiles.NewParser(opts)
}

// ConfigFromAnalysis maps the analysis section of the configuration.
func ConfigFromAnalysis(ac config.AnalysisConfig) Config {
	return Config{
		RingMaxLength:   ac.RingMaxLength,
		TieBreak:        ac.TieBreak,
		Workers:         ac.Workers,
		BatchWorkers:    ac.BatchWorkers,
		MaxBatchSize:    ac.MaxBatchSize,
		CacheTTL:        ac.CacheTTL,
		Timeout:         ac.Timeout,
		ReportURLExpiry: ac.ReportURLExpiry,
	}
}
