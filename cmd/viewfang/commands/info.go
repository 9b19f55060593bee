package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/viewfang/pkg/budget"
	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
	"github.com/Sumatoshi-tech/viewfang/pkg/textutil"
)

// infoSampleLimit caps the bytes read for classification.
const infoSampleLimit = 512 * 1024

// ErrInfoStdin indicates info was asked about stdin, which it cannot
// stat without consuming.
var ErrInfoStdin = errors.New("info requires a file path, not stdin")

// sourceInfo is the machine-readable shape of the info report.
type sourceInfo struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Lines     int    `json:"lines"`
	Binary    bool   `json:"binary"`
	Language  string `json:"language,omitempty"`
	Tokens    int    `json:"estimated_tokens"`
	Model     string `json:"model"`
	Fits      bool   `json:"fits_context"`
}

// NewInfoCommand creates the info command: source statistics without
// rendering a view.
func NewInfoCommand() *cobra.Command {
	var (
		asJSON bool
		model  string
	)

	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Show source statistics and token estimates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := collectInfo(args[0], model)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(info)
			}

			renderInfo(cmd.OutOrStdout(), info)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
	cmd.Flags().StringVar(&model, "model", config.DefaultModel, "model used for the token estimate")

	return cmd
}

// collectInfo stats and samples the source.
func collectInfo(path, model string) (*sourceInfo, error) {
	if path == reader.StdinSource {
		return nil, ErrInfoStdin
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("open source: %w", openErr)
	}
	defer file.Close()

	sample := make([]byte, infoSampleLimit)

	n, readErr := io.ReadFull(file, sample)
	if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read source: %w", readErr)
	}

	sample = sample[:n]

	m := budget.LookupModel(model)
	tokens := m.EstimateTokensBytes(stat.Size())

	info := &sourceInfo{
		Path:      path,
		SizeBytes: stat.Size(),
		Binary:    textutil.IsBinary(sample),
		Model:     m.Family,
		Tokens:    tokens,
		Fits:      tokens <= m.ContextWindow,
	}

	if !info.Binary {
		info.Lines = countFileLines(file, sample)
		info.Language = enry.GetLanguage(path, sample)
	}

	return info, nil
}

// countFileLines counts lines across sample plus the unread remainder
// of file, with wc -l semantics: newlines are counted over the whole
// stream, and a final line without a trailing newline still counts.
// Per-buffer counting would add a phantom line at every read boundary.
func countFileLines(file *os.File, sample []byte) int {
	lines := bytes.Count(sample, []byte{'\n'})

	last := byte('\n')
	empty := len(sample) == 0

	if !empty {
		last = sample[len(sample)-1]
	}

	buf := make([]byte, 64*1024)

	for {
		n, err := file.Read(buf)
		if n > 0 {
			lines += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
			empty = false
		}

		if err != nil {
			break
		}
	}

	if !empty && last != '\n' {
		lines++
	}

	return lines
}

// renderInfo writes the human-facing table.
func renderInfo(w io.Writer, info *sourceInfo) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	tw.AppendRow(table.Row{"Path", info.Path})
	tw.AppendRow(table.Row{"Size", humanize.IBytes(uint64(info.SizeBytes))})
	tw.AppendRow(table.Row{"Binary", info.Binary})

	if !info.Binary {
		tw.AppendRow(table.Row{"Lines", humanize.Comma(int64(info.Lines))})

		if info.Language != "" {
			tw.AppendRow(table.Row{"Language", info.Language})
		}
	}

	tw.AppendRow(table.Row{"Est. tokens", fmt.Sprintf("%s (%s)", humanize.Comma(int64(info.Tokens)), info.Model)})
	tw.AppendRow(table.Row{"Fits context", info.Fits})

	tw.Render()
}
