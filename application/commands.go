package application

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/KOMKZ/yogan-webconfig/config"
	"github.com/magiconair/properties"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML       = "yaml"
	formatProperties = "properties"
)

func newGetCmd(c *CLIApplication) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the resolved value of a key and the source it came from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := c.mustLoader()
			if err != nil {
				return err
			}

			key := args[0]
			value, source, ok := loader.Resolve(key)
			if !ok {
				return ErrKeyNotFound.WithData("key", key).WithMsgf("configuration key %s is not set", key)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%v\t%s\n", value, source)
			return err
		},
	}
}

func newSourcesCmd(c *CLIApplication) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configuration sources in lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := c.mustLoader()
			if err != nil {
				return err
			}
			return writeSources(cmd.OutOrStdout(), loader.Sources().Sources())
		},
	}
}

func newDumpCmd(c *CLIApplication) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := c.mustLoader()
			if err != nil {
				return err
			}

			switch format {
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), loader.AllSettings())
			case formatProperties:
				return writeProperties(cmd.OutOrStdout(), loader.Sources().Merged())
			default:
				return ErrUnknownFormat.WithData("format", format).
					WithMsgf("unknown output format %q (want %s or %s)", format, formatYAML, formatProperties)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format: yaml or properties")
	return cmd
}

func writeSources(w io.Writer, sources []*config.PropertySource) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tKEYS")
	for i, s := range sources {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, s.Name(), s.Len())
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, settings map[string]interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// writeProperties writes flat keys in sorted order, without expansion
func writeProperties(w io.Writer, merged map[string]interface{}) error {
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, k := range keys {
		if _, _, err := p.Set(k, fmt.Sprint(merged[k])); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	_, err := p.Write(w, properties.UTF8)
	return err
}
