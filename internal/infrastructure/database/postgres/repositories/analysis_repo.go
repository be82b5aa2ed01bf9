package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

// defaultHistoryLimit caps FindBySMILES when the caller passes no limit.
const defaultHistoryLimit = 20

const analysisColumns = `id, smiles, formula, molecular_weight, atom_count, heavy_atom_count,
	bond_count, fragment_count, longest_chain_length, ring_max_length, tie_break,
	longest_chains, rings, created_at`

type postgresAnalysisRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

// NewPostgresAnalysisRepo returns a molecule.AnalysisRepository backed by the
// molecule_analyses table.
func NewPostgresAnalysisRepo(conn *postgres.Connection, log logging.Logger) molecule.AnalysisRepository {
	return &postgresAnalysisRepo{conn: conn, log: log}
}

func (r *postgresAnalysisRepo) executor() queryExecutor {
	return r.conn.DB()
}

func (r *postgresAnalysisRepo) Save(ctx context.Context, a *molecule.Analysis) error {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "analysis id is not a UUID")
	}
	chains, err := marshalPaths(a.LongestChains)
	if err != nil {
		return err
	}
	rings, err := marshalPaths(a.Rings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO molecule_analyses (
			id, smiles, formula, molecular_weight, atom_count, heavy_atom_count,
			bond_count, fragment_count, longest_chain_length, ring_count,
			ring_max_length, tie_break, longest_chains, rings, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO NOTHING`
	_, err = r.executor().ExecContext(ctx, query,
		id, a.SMILES, a.Formula, a.Weight, a.AtomCount, a.HeavyAtomCount,
		a.BondCount, a.FragmentCount, a.LongestChainLength, a.RingCount(),
		a.RingMaxLength, a.TieBreak, chains, rings, a.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert analysis", logging.Err(err), logging.String("id", a.ID))
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to insert analysis")
	}
	return nil
}

func (r *postgresAnalysisRepo) FindByID(ctx context.Context, id string) (*molecule.Analysis, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeMoleculeNotFound, "analysis not found").WithDetail(id)
	}
	row := r.executor().QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM molecule_analyses WHERE id = $1`, uid)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodeMoleculeNotFound, "analysis not found").WithDetail(id)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to load analysis")
	}
	return a, nil
}

func (r *postgresAnalysisRepo) FindBySMILES(ctx context.Context, smiles string, limit int) ([]*molecule.Analysis, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := r.executor().QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM molecule_analyses WHERE smiles = $1 ORDER BY created_at DESC LIMIT $2`,
		smiles, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query analyses")
	}
	defer rows.Close()

	var out []*molecule.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan analysis")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to iterate analyses")
	}
	return out, nil
}

func scanAnalysis(s scanner) (*molecule.Analysis, error) {
	var (
		a             molecule.Analysis
		id            uuid.UUID
		chains, rings []byte
	)
	err := s.Scan(
		&id, &a.SMILES, &a.Formula, &a.Weight, &a.AtomCount, &a.HeavyAtomCount,
		&a.BondCount, &a.FragmentCount, &a.LongestChainLength, &a.RingMaxLength, &a.TieBreak,
		&chains, &rings, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = id.String()
	if err := json.Unmarshal(chains, &a.LongestChains); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rings, &a.Rings); err != nil {
		return nil, err
	}
	return &a, nil
}

func marshalPaths(paths []molecule.Path) ([]byte, error) {
	if paths == nil {
		paths = []molecule.Path{}
	}
	b, err := json.Marshal(paths)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to encode paths")
	}
	return b, nil
}
