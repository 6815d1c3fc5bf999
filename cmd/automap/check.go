package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"automapper/mapper"
	"automapper/profile"
	"automapper/store"
	"automapper/warehouse"
)

var errNoMapping = errors.New("--mapping is required")

func newCheckCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a YAML mapping profile against the demo types",
		Long: `check loads a mapping profile, compiles every pair it declares and prints
how each destination member is populated.

Known types: store.User, store.Address, store.Product, store.Order,
store.OrderItem and their warehouse DTOs. Known functions: fullName.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errNoMapping
			}

			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			opts, err := s.mapperOptions(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			catalog, err := demoCatalog()
			if err != nil {
				return err
			}

			p, err := profile.LoadFile(path, catalog)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			cfg, err := profile.NewConfiguration(p)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			return check(cmd.OutOrStdout(), cfg, mapper.New(cfg, opts...))
		},
	}

	cmd.Flags().StringVarP(&path, "mapping", "m", "", "Path to the YAML mapping profile")

	return cmd
}

func check(w io.Writer, cfg *profile.Configuration, m *mapper.Mapper) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	for _, pair := range cfg.Pairs() {
		report, err := m.Report(pair.Src, pair.Dst)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(w, report)
	}

	_, _ = fmt.Fprintln(w, "Validation passed")

	return nil
}

func demoCatalog() (*profile.Catalog, error) {
	c := profile.NewCatalog()

	err := errors.Join(
		profile.Register[store.User](c),
		profile.Register[store.Address](c),
		profile.Register[store.Product](c),
		profile.Register[store.Order](c),
		profile.Register[store.OrderItem](c),
		profile.Register[warehouse.UserDTO](c),
		profile.Register[warehouse.AddressDTO](c),
		profile.Register[warehouse.ProductDTO](c),
		profile.Register[warehouse.OrderDTO](c),
		profile.Register[warehouse.LineDTO](c),
		c.RegisterFunc("fullName", fullName),
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}
