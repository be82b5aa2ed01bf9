// Package repositories holds the Neo4j implementations of the domain graph
// repositories.
package repositories

import (
	"context"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	driver "github.com/turtacn/molgraph/internal/infrastructure/database/neo4j"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

const (
	cypherConstraint = `CREATE CONSTRAINT molecule_analysis_id IF NOT EXISTS
		FOR (m:Molecule) REQUIRE m.analysis_id IS UNIQUE`

	cypherClearAtoms = `
		MATCH (a:Atom {analysis_id: $analysisId})
		DETACH DELETE a`

	cypherUpsertMolecule = `
		MERGE (m:Molecule {analysis_id: $analysisId})
		SET m.atom_count = $atomCount, m.bond_count = $bondCount,
		    m.formula = $formula, m.updated_at = datetime()
		WITH m
		UNWIND $atoms AS atom
		CREATE (a:Atom {analysis_id: $analysisId})
		SET a += atom
		CREATE (m)-[:HAS_ATOM]->(a)`

	cypherCreateBonds = `
		UNWIND $bonds AS bond
		MATCH (a:Atom {analysis_id: $analysisId, idx: bond.a})
		MATCH (b:Atom {analysis_id: $analysisId, idx: bond.b})
		CREATE (a)-[:BONDED {idx: bond.idx, order: bond.order, symbol: bond.symbol, direction: bond.direction}]->(b)`

	cypherDeleteMolecule = `
		MATCH (m:Molecule {analysis_id: $analysisId})
		OPTIONAL MATCH (m)-[:HAS_ATOM]->(a:Atom)
		DETACH DELETE a, m`
)

// MoleculeGraphRepository exports molecules as (:Molecule)-[:HAS_ATOM]->(:Atom)
// graphs with [:BONDED] edges between atoms.
type MoleculeGraphRepository struct {
	driver driver.DriverInterface
	log    logging.Logger
}

// NewNeo4jMoleculeGraphRepo returns a repository over d.
func NewNeo4jMoleculeGraphRepo(d driver.DriverInterface, log logging.Logger) *MoleculeGraphRepository {
	return &MoleculeGraphRepository{driver: d, log: log}
}

var _ molecule.GraphRepository = (*MoleculeGraphRepository)(nil)

// EnsureConstraints creates the uniqueness constraint on Molecule nodes.
func (r *MoleculeGraphRepository) EnsureConstraints(ctx context.Context) error {
	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		_, err := tx.Run(ctx, cypherConstraint, nil)
		return nil, err
	})
	return err
}

// SaveGraph replaces any previous export of analysisID.
func (r *MoleculeGraphRepository) SaveGraph(ctx context.Context, analysisID string, m *molecule.Molecule) error {
	if analysisID == "" || m == nil {
		return apperrors.New(apperrors.ErrCodeValidation, "analysis id and molecule are required")
	}

	atoms, bonds := graphParams(m)
	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		if _, err := tx.Run(ctx, cypherClearAtoms, map[string]any{"analysisId": analysisID}); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, cypherUpsertMolecule, map[string]any{
			"analysisId": analysisID,
			"atomCount":  int64(m.AtomCount()),
			"bondCount":  int64(m.BondCount()),
			"formula":    m.Formula(),
			"atoms":      atoms,
		}); err != nil {
			return nil, err
		}
		if len(bonds) == 0 {
			return nil, nil
		}
		_, err := tx.Run(ctx, cypherCreateBonds, map[string]any{
			"analysisId": analysisID,
			"bonds":      bonds,
		})
		return nil, err
	})
	if err != nil {
		r.log.Warn("molecule graph export failed", logging.String("analysis_id", analysisID), logging.Err(err))
		return apperrors.Wrap(err, apperrors.ErrCodeGraphExportFailed, "failed to export molecule graph")
	}
	r.log.Debug("molecule graph exported",
		logging.String("analysis_id", analysisID),
		logging.Int("atoms", len(atoms)),
		logging.Int("bonds", len(bonds)),
	)
	return nil
}

func (r *MoleculeGraphRepository) DeleteGraph(ctx context.Context, analysisID string) error {
	_, err := r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		_, err := tx.Run(ctx, cypherDeleteMolecule, map[string]any{"analysisId": analysisID})
		return nil, err
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeGraphExportFailed, "failed to delete molecule graph")
	}
	return nil
}

// graphParams converts atoms and bonds to driver-native parameter values.
func graphParams(m *molecule.Molecule) (atoms, bonds []any) {
	for _, a := range m.Atoms() {
		atoms = append(atoms, map[string]any{
			"idx":       int64(a.ID),
			"symbol":    a.Symbol,
			"isotope":   int64(a.Isotope),
			"charge":    int64(a.Charge),
			"aromatic":  a.Aromatic,
			"chirality": a.Chirality,
			"hydrogens": int64(a.HydrogenCount),
		})
	}
	for _, b := range m.Bonds() {
		bonds = append(bonds, map[string]any{
			"idx":       int64(b.ID),
			"a":         int64(b.A),
			"b":         int64(b.B),
			"order":     b.Order.String(),
			"symbol":    b.Order.Symbol(),
			"direction": b.Direction.String(),
		})
	}
	return atoms, bonds
}
