package molecule

import "context"

// AnalysisRepository persists analyses by ID.
type AnalysisRepository interface {
	Save(ctx context.Context, a *Analysis) error
	// FindByID returns an error carrying ErrCodeMoleculeNotFound when absent.
	FindByID(ctx context.Context, id string) (*Analysis, error)
	// FindBySMILES lists the most recent analyses of an input, newest first.
	FindBySMILES(ctx context.Context, smiles string, limit int) ([]*Analysis, error)
}

// GraphRepository exports molecular graphs to a graph store.
type GraphRepository interface {
	SaveGraph(ctx context.Context, analysisID string, m *Molecule) error
	DeleteGraph(ctx context.Context, analysisID string) error
}
