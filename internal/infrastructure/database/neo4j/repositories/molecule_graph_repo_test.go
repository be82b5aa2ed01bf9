package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/domain/smiles"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

const graphAnalysisID = "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"

type MoleculeGraphRepoTestSuite struct {
	suite.Suite
	mockDriver *MockInfraDriver
	mockTx     *MockInfraTransaction
	repo       *MoleculeGraphRepository
}

func (s *MoleculeGraphRepoTestSuite) SetupTest() {
	s.mockDriver, s.mockTx = SetupMockDriver()
	s.repo = NewNeo4jMoleculeGraphRepo(s.mockDriver, logging.NewNopLogger())
}

func TestMoleculeGraphRepo(t *testing.T) {
	suite.Run(t, new(MoleculeGraphRepoTestSuite))
}

func cypherContains(fragment string) any {
	return mock.MatchedBy(func(q string) bool { return strings.Contains(q, fragment) })
}

func (s *MoleculeGraphRepoTestSuite) parse(input string) *molecule.Molecule {
	m, err := smiles.Parse(input)
	require.NoError(s.T(), err)
	return m
}

func (s *MoleculeGraphRepoTestSuite) TestSaveGraph_Water() {
	m := s.parse("O")

	s.mockTx.On("Run", mock.Anything, cypherContains("DETACH DELETE a"), map[string]any{"analysisId": graphAnalysisID}).
		Return(MockResult{}, nil).Once()
	s.mockTx.On("Run", mock.Anything, cypherContains("MERGE (m:Molecule"), mock.MatchedBy(func(p map[string]any) bool {
		atoms, ok := p["atoms"].([]any)
		if !ok || len(atoms) != 3 {
			return false
		}
		first := atoms[0].(map[string]any)
		return p["analysisId"] == graphAnalysisID &&
			p["atomCount"] == int64(3) &&
			p["bondCount"] == int64(2) &&
			p["formula"] == "H2O" &&
			first["symbol"] == "O" &&
			first["idx"] == int64(0)
	})).Return(MockResult{}, nil).Once()
	s.mockTx.On("Run", mock.Anything, cypherContains("[:BONDED"), mock.MatchedBy(func(p map[string]any) bool {
		bonds, ok := p["bonds"].([]any)
		if !ok || len(bonds) != 2 {
			return false
		}
		b := bonds[0].(map[string]any)
		return b["order"] == "single" && b["symbol"] == "-" && b["a"] == int64(0)
	})).Return(MockResult{}, nil).Once()

	s.Require().NoError(s.repo.SaveGraph(context.Background(), graphAnalysisID, m))
	s.mockTx.AssertExpectations(s.T())
	s.mockDriver.AssertCalled(s.T(), "ExecuteWrite", mock.Anything)
}

func (s *MoleculeGraphRepoTestSuite) TestSaveGraph_BondOrderAndDirection() {
	m := s.parse("F/C=C/F")

	s.mockTx.On("Run", mock.Anything, cypherContains("DETACH DELETE a"), mock.Anything).Return(MockResult{}, nil)
	s.mockTx.On("Run", mock.Anything, cypherContains("MERGE (m:Molecule"), mock.Anything).Return(MockResult{}, nil)

	var bonds []any
	s.mockTx.On("Run", mock.Anything, cypherContains("[:BONDED"), mock.Anything).
		Run(func(args mock.Arguments) {
			bonds = args.Get(2).(map[string]any)["bonds"].([]any)
		}).
		Return(MockResult{}, nil)

	s.Require().NoError(s.repo.SaveGraph(context.Background(), graphAnalysisID, m))

	directions := map[string]int{}
	orders := map[string]int{}
	for _, raw := range bonds {
		b := raw.(map[string]any)
		directions[b["direction"].(string)]++
		orders[b["order"].(string)]++
	}
	s.Equal(2, directions["/"])
	s.Equal(1, orders["double"])
}

func (s *MoleculeGraphRepoTestSuite) TestSaveGraph_SingleAtomSkipsBonds() {
	m := molecule.New()
	m.AddAtom(molecule.Atom{Symbol: "He", Hydrogens: molecule.NoHydrogens()})

	s.mockTx.On("Run", mock.Anything, cypherContains("DETACH DELETE a"), mock.Anything).Return(MockResult{}, nil).Once()
	s.mockTx.On("Run", mock.Anything, cypherContains("MERGE (m:Molecule"), mock.Anything).Return(MockResult{}, nil).Once()

	s.Require().NoError(s.repo.SaveGraph(context.Background(), graphAnalysisID, m))
	s.mockTx.AssertNumberOfCalls(s.T(), "Run", 2)
}

func (s *MoleculeGraphRepoTestSuite) TestSaveGraph_RunFailure() {
	s.mockTx.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("deadlock"))

	err := s.repo.SaveGraph(context.Background(), graphAnalysisID, s.parse("C"))
	s.True(apperrors.IsCode(err, apperrors.ErrCodeGraphExportFailed))
}

func (s *MoleculeGraphRepoTestSuite) TestSaveGraph_RequiresInputs() {
	err := s.repo.SaveGraph(context.Background(), "", s.parse("C"))
	s.True(apperrors.IsCode(err, apperrors.ErrCodeValidation))

	err = s.repo.SaveGraph(context.Background(), graphAnalysisID, nil)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeValidation))
	s.mockTx.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything, mock.Anything)
}

func (s *MoleculeGraphRepoTestSuite) TestDeleteGraph() {
	s.mockTx.On("Run", mock.Anything, cypherContains("MATCH (m:Molecule"), map[string]any{"analysisId": graphAnalysisID}).
		Return(MockResult{}, nil).Once()

	s.NoError(s.repo.DeleteGraph(context.Background(), graphAnalysisID))
	s.mockTx.AssertExpectations(s.T())
}

func (s *MoleculeGraphRepoTestSuite) TestDeleteGraph_Failure() {
	s.mockTx.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))

	err := s.repo.DeleteGraph(context.Background(), graphAnalysisID)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeGraphExportFailed))
}

func (s *MoleculeGraphRepoTestSuite) TestEnsureConstraints() {
	s.mockTx.On("Run", mock.Anything, cypherContains("CREATE CONSTRAINT"), map[string]any(nil)).
		Return(MockResult{}, nil).Once()

	s.NoError(s.repo.EnsureConstraints(context.Background()))
	s.mockTx.AssertExpectations(s.T())
}
