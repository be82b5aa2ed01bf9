package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/molgraph/pkg/types/molecule"
)

// MoleculesClient wraps the /api/v1 molecule and analysis endpoints.
type MoleculesClient struct {
	client *Client
}

// Parse returns the full atom and bond graph of smiles.
func (m *MoleculesClient) Parse(ctx context.Context, smiles string) (*molecule.Molecule, error) {
	var out molecule.Molecule
	if err := m.client.post(ctx, "/api/v1/molecules/parse", molecule.ParseRequest{SMILES: smiles}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze runs the structural analysis of req.SMILES.
func (m *MoleculesClient) Analyze(ctx context.Context, req molecule.AnalyzeRequest) (*molecule.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var out molecule.Analysis
	if err := m.client.post(ctx, "/api/v1/molecules/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeBatch analyses every item.  Per-item failures are reported in the
// report, not as an error.
func (m *MoleculesClient) AnalyzeBatch(ctx context.Context, items []molecule.AnalyzeRequest) (*molecule.BatchReport, error) {
	req := molecule.BatchRequest{Items: items}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var out molecule.BatchReport
	if err := m.client.post(ctx, "/api/v1/molecules/batch", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAnalysis fetches a stored analysis by ID.
func (m *MoleculesClient) GetAnalysis(ctx context.Context, id string) (*molecule.Analysis, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: analysis id is required", ErrInvalidConfig)
	}
	var out molecule.Analysis
	if err := m.client.get(ctx, "/api/v1/analyses/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindAnalyses lists stored analyses of smiles, newest first.  A zero limit
// uses the server default.
func (m *MoleculesClient) FindAnalyses(ctx context.Context, smiles string, limit int) ([]molecule.Analysis, error) {
	if smiles == "" {
		return nil, fmt.Errorf("%w: smiles is required", ErrInvalidConfig)
	}
	q := url.Values{"smiles": {smiles}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out molecule.AnalysisList
	if err := m.client.get(ctx, "/api/v1/analyses?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
