package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/proem/internal/config"
	"github.com/alexisbeaulieu97/proem/internal/domain/signal"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

type eventsOptions struct {
	Prefix string
}

func newEventsCmd() *cobra.Command {
	opts := eventsOptions{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the signals fired by a default run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.ValidPrefix(opts.Prefix) {
				return proemerrors.NewValidationError("prefix", fmt.Sprintf("%q is not a dotted lower-case identifier", opts.Prefix), nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderVocabulary(opts.Prefix, signal.Vocabulary(opts.Prefix)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Prefix, "prefix", "p", config.DefaultPrefix, "Event name prefix")

	return cmd
}

// describeEvent splits a well-known name into phase, direction and stage.
// init and shutdown have no direction or stage.
func describeEvent(prefix, name string) (phase, dir, stage string) {
	rest := strings.TrimPrefix(name, prefix+".")
	parts := strings.Split(rest, ".")
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	default:
		return rest, "", ""
	}
}
