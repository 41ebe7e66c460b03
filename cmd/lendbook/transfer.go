package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xraph/lendbook/obligation"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// tomlDocument wraps the list because a TOML document must be a table.
type tomlDocument struct {
	Obligations []*obligation.Obligation `toml:"obligations"`
}

// encodeObligations writes list to w in format.
func encodeObligations(w io.Writer, format string, list []*obligation.Obligation) error {
	if list == nil {
		list = []*obligation.Obligation{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(list); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(tomlDocument{Obligations: list})
	default:
		return fmt.Errorf("unknown format %q: use json, yaml or toml", format)
	}
}

// decodeObligations parses data written by encodeObligations.
func decodeObligations(data []byte, format string) ([]*obligation.Obligation, error) {
	var list []*obligation.Obligation
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		var doc tomlDocument
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		list = doc.Obligations
	default:
		return nil, fmt.Errorf("unknown format %q: use json, yaml or toml", format)
	}
	return list, nil
}

// formatFromPath guesses the format from a file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every obligation to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			list := a.book.Export(cmd.Context())

			if output == "" || output == "-" {
				return encodeObligations(a.out, format, list)
			}

			var buf bytes.Buffer
			if err := encodeObligations(&buf, format, list); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d obligations to %s\n", len(list), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json, yaml or toml (default: from --output, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace every obligation with the contents of FILE",
		Long: `Replace every obligation with the contents of FILE. Records are taken as
they are; no wallet transactions are booked. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				data []byte
				err  error
			)
			if path == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return err
			}

			if format == "" {
				format = formatFromPath(path)
			}
			list, err := decodeObligations(data, format)
			if err != nil {
				return err
			}

			a.book.Import(cmd.Context(), list)
			fmt.Fprintf(a.out, "Imported %d obligations\n", len(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json, yaml or toml (default: from the file extension)")
	return cmd
}
