package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/domain/smiles"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <smiles>",
		Short: "Parse a SMILES string and print its atoms and bonds",
		Example: `  molgraph parse 'CCO'
  molgraph parse -o table 'c1ccccc1'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			input := args[0]
			m, err := cliCtx.Service().Parse(ctx, input)
			if err != nil {
				return withInput(input, err)
			}
			cliCtx.Logger.Debug("parsed", logging.String("smiles", input), logging.Int("atoms", m.AtomCount()))
			return PrintResult(cmd, moleculeOutput{view: appmol.Describe(input, m)})
		},
	}
}

// NewRingsCmd creates the rings command.
func NewRingsCmd() *cobra.Command {
	var maxLength int
	cmd := &cobra.Command{
		Use:   "rings <smiles>",
		Short: "List the rings of a molecule",
		Example: `  molgraph rings 'c1ccc2ccccc2c1'
  molgraph rings --max-length 6 'C12CC1CC2'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			out, err := analyze(cmd, cliCtx, appmol.AnalyzeRequest{SMILES: args[0], RingMaxLength: maxLength})
			if err != nil {
				return err
			}
			return PrintResult(cmd, ringsOutput(out))
		},
	}
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "largest ring size to search for (0 uses the configured default)")
	return cmd
}

// NewChainsCmd creates the chains command.
func NewChainsCmd() *cobra.Command {
	var tieBreak string
	cmd := &cobra.Command{
		Use:   "chains <smiles>",
		Short: "List the longest heavy-atom chains of a molecule",
		Example: `  molgraph chains 'CC(C)CC'
  molgraph chains --tie-break carbon-endpoints 'OCC(C)C'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			out, err := analyze(cmd, cliCtx, appmol.AnalyzeRequest{SMILES: args[0], TieBreak: tieBreak})
			if err != nil {
				return err
			}
			return PrintResult(cmd, chainsOutput(out))
		},
	}
	cmd.Flags().StringVar(&tieBreak, "tie-break", "", "longest-chain policy: all|carbon-endpoints (empty uses the configured default)")
	return cmd
}

// analysisOutput pairs an analysis with the parsed molecule so paths can be
// rendered with element symbols.
type analysisOutput struct {
	result *appmol.AnalysisResult
	mol    *domainMol.Molecule
}

func analyze(cmd *cobra.Command, cliCtx *CLIContext, req appmol.AnalyzeRequest) (analysisOutput, error) {
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	svc := cliCtx.Service()
	res, err := svc.Analyze(ctx, req)
	if err != nil {
		return analysisOutput{}, withInput(req.SMILES, err)
	}
	m, err := svc.Parse(ctx, req.SMILES)
	if err != nil {
		return analysisOutput{}, withInput(req.SMILES, err)
	}
	return analysisOutput{result: res, mol: m}, nil
}

// withInput annotates a parse error with the input and a caret under the
// offending offset.
func withInput(input string, err error) error {
	var pe *smiles.ParseError
	if !errors.As(err, &pe) || pe.Offset < 0 || pe.Offset > len(input) {
		return err
	}
	msg := pe.Err.Message
	if pe.Err.Detail != "" {
		msg += ": " + pe.Err.Detail
	}
	return errors.Wrap(err, errors.CodeUnknown, msg).
		WithDetail(fmt.Sprintf("at offset %d\n  %s\n  %s^", pe.Offset, input, strings.Repeat(" ", pe.Offset)))
}

// renderPath joins atom labels such as "C0-C1-O2".
func renderPath(m *domainMol.Molecule, p domainMol.Path) string {
	parts := make([]string, len(p))
	for i, id := range p {
		if m != nil && int(id) < m.AtomCount() {
			parts[i] = m.Atom(id).String()
		} else {
			parts[i] = strconv.Itoa(int(id))
		}
	}
	return strings.Join(parts, "-")
}

// ─────────────────────────────────────────────────────────────────────────────
// Output views
// ─────────────────────────────────────────────────────────────────────────────

type moleculeOutput struct {
	view *appmol.MoleculeView
}

func (o moleculeOutput) JSONValue() any { return o.view }

func (o moleculeOutput) String() string {
	v := o.view
	var sb strings.Builder
	fmt.Fprintf(&sb, "SMILES:      %s\n", v.SMILES)
	fmt.Fprintf(&sb, "Formula:     %s\n", v.Formula)
	fmt.Fprintf(&sb, "Weight:      %.3f\n", v.Weight)
	fmt.Fprintf(&sb, "Atoms:       %d (%d heavy)\n", v.AtomCount, v.HeavyAtomCount)
	fmt.Fprintf(&sb, "Bonds:       %d\n", v.BondCount)
	fmt.Fprintf(&sb, "Fragments:   %d\n", v.FragmentCount)
	return sb.String()
}

func (o moleculeOutput) TableHeaders() []string {
	return []string{"ID", "SYMBOL", "AROMATIC", "CHARGE", "H", "NEIGHBORS"}
}

func (o moleculeOutput) TableRows() [][]string {
	neighbors := make(map[int][]string, len(o.view.Atoms))
	for _, b := range o.view.Bonds {
		neighbors[b.A] = append(neighbors[b.A], strconv.Itoa(b.B))
		neighbors[b.B] = append(neighbors[b.B], strconv.Itoa(b.A))
	}
	rows := make([][]string, 0, len(o.view.Atoms))
	for _, a := range o.view.Atoms {
		rows = append(rows, []string{
			strconv.Itoa(a.ID),
			a.Symbol,
			strconv.FormatBool(a.Aromatic),
			strconv.Itoa(a.Charge),
			strconv.Itoa(a.Hydrogens),
			strings.Join(neighbors[a.ID], ","),
		})
	}
	return rows
}

type ringsOutput analysisOutput

func (o ringsOutput) JSONValue() any {
	return struct {
		SMILES        string           `json:"smiles"`
		RingMaxLength int              `json:"ring_max_length"`
		Rings         []domainMol.Path `json:"rings"`
	}{o.result.SMILES, o.result.RingMaxLength, nonNilPaths(o.result.Rings)}
}

func (o ringsOutput) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d ring(s) in %s\n", o.result.RingCount(), o.result.SMILES)
	for i, r := range o.result.Rings {
		fmt.Fprintf(&sb, "  %d. [%d] %s\n", i+1, r.Len(), renderPath(o.mol, r))
	}
	return sb.String()
}

func (o ringsOutput) TableHeaders() []string { return []string{"#", "SIZE", "ATOMS"} }

func (o ringsOutput) TableRows() [][]string {
	rows := make([][]string, 0, len(o.result.Rings))
	for i, r := range o.result.Rings {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(r.Len()), renderPath(o.mol, r)})
	}
	return rows
}

type chainsOutput analysisOutput

func (o chainsOutput) JSONValue() any {
	return struct {
		SMILES             string           `json:"smiles"`
		TieBreak           string           `json:"tie_break"`
		LongestChainLength int              `json:"longest_chain_length"`
		LongestChains      []domainMol.Path `json:"longest_chains"`
	}{o.result.SMILES, o.result.TieBreak, o.result.LongestChainLength, nonNilPaths(o.result.LongestChains)}
}

func (o chainsOutput) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d longest chain(s) of length %d in %s\n",
		len(o.result.LongestChains), o.result.LongestChainLength, o.result.SMILES)
	for i, c := range o.result.LongestChains {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, renderPath(o.mol, c))
	}
	return sb.String()
}

func (o chainsOutput) TableHeaders() []string { return []string{"#", "LENGTH", "ATOMS"} }

func (o chainsOutput) TableRows() [][]string {
	rows := make([][]string, 0, len(o.result.LongestChains))
	for i, c := range o.result.LongestChains {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(c.Len()), renderPath(o.mol, c)})
	}
	return rows
}

func nonNilPaths(p []domainMol.Path) []domainMol.Path {
	if p == nil {
		return []domainMol.Path{}
	}
	return p
}
