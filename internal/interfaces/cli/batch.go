package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	var (
		archive   bool
		maxLength int
		tieBreak  string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Analyze every SMILES in a file, one per line",
		Long: "Analyze every SMILES in a file.  Each non-blank line holds one SMILES,\n" +
			"optionally followed by whitespace and a name; lines starting with # are\n" +
			"skipped.  Use - to read standard input.",
		Example: `  molgraph batch compounds.smi
  molgraph batch --archive -o json compounds.smi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			inputs, err := readInputs(cmd, args[0])
			if err != nil {
				return err
			}
			reqs := make([]appmol.AnalyzeRequest, len(inputs))
			for i, s := range inputs {
				reqs[i] = appmol.AnalyzeRequest{SMILES: s, RingMaxLength: maxLength, TieBreak: tieBreak}
			}

			svc := cliCtx.Service()
			if archive {
				if svc, err = cliCtx.ArchivingService(ctx); err != nil {
					return err
				}
			}
			report, err := svc.AnalyzeBatch(ctx, reqs)
			if err != nil {
				return err
			}
			cliCtx.Logger.Info("batch complete",
				logging.String("batch_id", report.ID),
				logging.Int("succeeded", report.Succeeded),
				logging.Int("failed", report.Failed))

			if err := PrintResult(cmd, batchOutput{report}); err != nil {
				return err
			}
			if strict && report.Failed > 0 {
				return errors.Newf(errors.ErrCodeValidation, "%d of %d inputs failed", report.Failed, len(reqs))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&archive, "archive", false, "archive the batch report to object storage")
	f.IntVar(&maxLength, "max-length", 0, "largest ring size to search for")
	f.StringVar(&tieBreak, "tie-break", "", "longest-chain policy: all|carbon-endpoints")
	f.BoolVar(&strict, "strict", false, "exit with an error when any input fails")
	return cmd
}

// readInputs loads the SMILES column of path, or of stdin for "-".
func readInputs(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot open input file").WithDetail(path)
		}
		defer f.Close()
		r = f
	}

	var inputs []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, strings.Fields(line)[0])
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read input")
	}
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "no SMILES found in input")
	}
	return inputs, nil
}

type batchOutput struct {
	report *appmol.BatchReport
}

func (o batchOutput) JSONValue() any { return o.report }

func (o batchOutput) String() string {
	r := o.report
	var sb strings.Builder
	for _, item := range r.Items {
		if item.Error != nil {
			fmt.Fprintf(&sb, "%4d  FAIL  %s  %s %s\n", item.Index+1, item.SMILES, item.Error.Code, item.Error.Message)
			continue
		}
		fmt.Fprintf(&sb, "%4d  OK    %s  %s rings=%d chain=%d\n", item.Index+1, item.SMILES,
			item.Result.Formula, item.Result.RingCount(), item.Result.LongestChainLength)
	}
	fmt.Fprintf(&sb, "batch %s: %d succeeded, %d failed in %s\n", r.ID, r.Succeeded, r.Failed, r.Duration)
	if r.ArchiveLocation != "" {
		fmt.Fprintf(&sb, "archived to %s\n", r.ArchiveLocation)
	}
	if r.DownloadURL != "" {
		fmt.Fprintf(&sb, "download: %s\n", r.DownloadURL)
	}
	return sb.String()
}

func (o batchOutput) TableHeaders() []string {
	return []string{"#", "SMILES", "FORMULA", "RINGS", "CHAIN", "ERROR"}
}

func (o batchOutput) TableRows() [][]string {
	rows := make([][]string, 0, len(o.report.Items))
	for _, item := range o.report.Items {
		row := []string{strconv.Itoa(item.Index + 1), item.SMILES, "", "", "", ""}
		if item.Error != nil {
			row[5] = item.Error.Code
			if item.Error.Offset != nil {
				row[5] += "@" + strconv.Itoa(*item.Error.Offset)
			}
		} else {
			row[2] = item.Result.Formula
			row[3] = strconv.Itoa(item.Result.RingCount())
			row[4] = strconv.Itoa(item.Result.LongestChainLength)
		}
		rows = append(rows, row)
	}
	return rows
}
