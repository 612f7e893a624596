/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/skald/pkg/api"
	"github.com/ssargent/skald/pkg/argbuf"
	"github.com/ssargent/skald/pkg/sink"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <pattern> [kind:value]...",
	Short: "Render a pattern against typed arguments",
	Long: `Render a format pattern against typed arguments without a server.

Each argument is a kind:value pair. The value is packed into an
argument buffer, replayed through the text sink and substituted into
the pattern.

Examples:
  skald render "status={} msg={}" int32:42 string:ok
  skald render "{1} then {0}" string:second string:first
  skald render "pid={}" guid:6b29fc40-ca47-1067-b31d-00dd010662da`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var buf argbuf.Buffer
		defer buf.Release()
		buf.SetWarn(func(msg string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		})

		for i, token := range args[1:] {
			arg, err := parseArgToken(token)
			if err != nil {
				cmd.Printf("Error: argument %d: %v\n", i, err)
				os.Exit(1)
			}
			if err := api.PackArg(&buf, arg); err != nil {
				cmd.Printf("Error: argument %d: %v\n", i, err)
				os.Exit(1)
			}
		}

		fs := sink.NewFormatSink()
		buf.Replay(fs)
		cmd.Println(fs.Render(args[0]))
	},
}

// parseArgToken splits a kind:value token and coerces the value into the
// JSON shape PackArg expects for that kind.
func parseArgToken(token string) (api.IngestArg, error) {
	kind, value, found := strings.Cut(token, ":")
	if !found {
		return api.IngestArg{}, fmt.Errorf("expected kind:value, got %q", token)
	}

	switch kind {
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return api.IngestArg{}, fmt.Errorf("expected a boolean, got %q", value)
		}
		return api.IngestArg{Kind: kind, Value: v}, nil
	case "int8", "int16", "int32", "int64",
		"uint8", "uint16", "uint32", "uint64",
		"float32", "float64", "filetime":
		return api.IngestArg{Kind: kind, Value: json.Number(value)}, nil
	default:
		return api.IngestArg{Kind: kind, Value: value}, nil
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
