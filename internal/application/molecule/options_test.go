package molecule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/domain/smiles"
	"github.com/turtacn/molgraph/pkg/errors"
)

func TestParserFromConfig_InputLimit(t *testing.T) {
	p := ParserFromConfig(config.ParserConfig{MaxInputLength: 4, AromaticBondElectrons: 1, AromaticAtomPenalty: 1})

	_, err := p.Parse("CCCCC")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInputTooLong))

	m, err := p.Parse("CCCC")
	require.NoError(t, err)
	assert.Equal(t, "C4H10", m.Formula())
}

func TestParserFromConfig_BracketLimits(t *testing.T) {
	p := ParserFromConfig(config.ParserConfig{MaxExplicitHydrogens: 2, MaxCharge: 1})

	_, err := p.Parse("[CH3]")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))
	_, err = p.Parse("[O-2]")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))

	m, err := p.Parse("[NH2-]")
	require.NoError(t, err)
	assert.Equal(t, "H2N-", m.Formula())

	_, err = ParserFromConfig(config.ParserConfig{}).Parse("[CH2000000]")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESSyntax))
}

func TestParserFromConfig_ValenceModels(t *testing.T) {
	for _, pc := range []config.ParserConfig{
		{AromaticBondElectrons: 1, AromaticAtomPenalty: 1},
		{AromaticBondElectrons: 1.5, AromaticAtomPenalty: 0},
	} {
		m, err := ParserFromConfig(pc).Parse("c1ccccc1")
		require.NoError(t, err)
		assert.Equal(t, "C6H6", m.Formula())
	}
}

func TestParserFromConfig_ZeroUsesDefaults(t *testing.T) {
	m, err := ParserFromConfig(config.ParserConfig{}).Parse("c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, "C6H6", m.Formula())

	_, err = ParserFromConfig(config.ParserConfig{}).Parse(string(make([]byte, smiles.DefaultMaxInputLength+1)))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInputTooLong))
}

func TestConfigFromAnalysis(t *testing.T) {
	got := ConfigFromAnalysis(config.AnalysisConfig{
		RingMaxLength:   8,
		TieBreak:        "carbon-endpoints",
		Workers:         2,
		BatchWorkers:    3,
		MaxBatchSize:    50,
		CacheTTL:        time.Minute,
		Timeout:         time.Second,
		ReportURLExpiry: time.Hour,
	})
	assert.Equal(t, Config{
		RingMaxLength:   8,
		TieBreak:        "carbon-endpoints",
		Workers:         2,
		BatchWorkers:    3,
		MaxBatchSize:    50,
		CacheTTL:        time.Minute,
		Timeout:         time.Second,
		ReportURLExpiry: time.Hour,
	}, got)
}
