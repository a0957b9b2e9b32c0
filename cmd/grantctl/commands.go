package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/granttrace/backend/internal/config"
	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/logging"
	"github.com/vanshika/granttrace/backend/internal/network"
	"github.com/vanshika/granttrace/backend/internal/service"
)

var errUnknownFormat = errors.New("output must be json or yaml")

type cliOptions struct {
	dataDir  string
	output   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "grantctl",
		Short:         "Explore charity grant networks from local record files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != "json" && opts.output != "yaml" {
				return errUnknownFormat
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.dataDir, "data-dir", "d", "./data", "directory containing charities.json and grants.json")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format (json or yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newSearchCmd(opts),
		newNetworkCmd(opts),
		newOrgCmd(opts),
		newYearsCmd(opts),
		newImpactCmd(opts),
	)
	return root
}

func newSearchCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find organizations by name or EIN",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			matches, err := svc.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), matches)
		},
	}
}

func newNetworkCmd(opts *cliOptions) *cobra.Command {
	params := network.DefaultParams()
	var years []int

	cmd := &cobra.Command{
		Use:   "network <ein>",
		Short: "Filter the grant network around an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			params.OrgFilter = args[0]
			params.SelectedYears = years
			result, err := svc.Filter(cmd.Context(), params)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), newNetworkOutput(result))
		},
	}
	cmd.Flags().Float64Var(&params.MinAmount, "min-amount", params.MinAmount, "ignore grants below this amount")
	cmd.Flags().IntVar(&params.MaxOrgs, "max-orgs", params.MaxOrgs, "organizations to keep, root included")
	cmd.Flags().IntVar(&params.Depth, "depth", params.Depth, "hops to expand from the root")
	cmd.Flags().IntSliceVar(&years, "years", nil, "tax years to include (defaults to every year the root appears in)")
	return cmd
}

func newOrgCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "org <ein>",
		Short: "Show the financial profile of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			details, err := svc.OrgDetails(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return opts.render(cmd.OutOrStdout(), orgOutput(details))
		},
	}
}

func newYearsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "years <ein>",
		Short: "List the tax years an organization has grants in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			years, err := svc.AvailableYears(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), years)
		},
	}
}

func newImpactCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "impact <ein>...",
		Short: "Sum government funding received by a set of organizations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			total, err := svc.TaxpayerImpact(cmd.Context(), args)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), map[string]any{
				"organizations": len(args),
				"govtFunds":     total,
			})
		},
	}
}

func (o *cliOptions) loadService(cmd *cobra.Command) (*service.GrantService, error) {
	logger := logging.NewWithWriter(config.LoggingConfig{Level: o.logLevel, Format: "text"}, cmd.ErrOrStderr())
	svc := service.NewGrantService(dataset.NewFileSource(o.dataDir), logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := svc.Load(ctx); err != nil {
		return nil, fmt.Errorf("load records from %s: %w", o.dataDir, err)
	}
	return svc, nil
}

func (o *cliOptions) render(w io.Writer, v any) error {
	switch o.output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
