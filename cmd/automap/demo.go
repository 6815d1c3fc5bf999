package main

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"automapper/mapper"
	"automapper/profile"
	"automapper/store"
	"automapper/warehouse"
)

var dump = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func newDemoCommand() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Map the sample store data to warehouse transfer objects",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			now := time.Now()
			if asOf != "" {
				if now, err = time.Parse(time.DateOnly, asOf); err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
			}

			opts, err := s.mapperOptions(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cfg, err := profile.NewConfiguration(demoProfile(now))
			if err != nil {
				return err
			}

			return runDemo(cmd.OutOrStdout(), mapper.New(cfg, opts...))
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date for ages, YYYY-MM-DD (default today)")

	return cmd
}

// demoProfile declares the maps that conventions alone cannot derive.
func demoProfile(now time.Time) *profile.Profile {
	p := profile.NewProfile("store")

	profile.CreateMap[store.User, warehouse.UserDTO](p).
		ForMember("FullName", func(o *profile.MemberOptions[store.User]) {
			o.ResolveUsing(fullName)
		}).
		ForMember("Age", func(o *profile.MemberOptions[store.User]) {
			o.ResolveUsing(ageAt(now))
		})

	return p
}

func fullName(u store.User) string {
	return u.FirstName + " " + u.LastName
}

func ageAt(now time.Time) func(store.User) (int, bool) {
	return func(u store.User) (int, bool) {
		born := u.BirthDate
		if born.IsZero() {
			return 0, false
		}

		age := now.Year() - born.Year()
		if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
			age--
		}

		return age, true
	}
}

func sampleOrder() store.Order {
	ada := &store.User{
		ID:        1,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		BirthDate: time.Date(1990, time.December, 10, 0, 0, 0, 0, time.UTC),
		Address:   &store.Address{Street: "12 St James's Square", City: "London", ZipCode: "SW1Y 4JH"},
		Roles:     []string{"admin", "buyer"},
	}

	notebook := store.Product{ID: 7, Name: "Notebook", PriceCents: 350000, InternalCode: "INTERNAL-123"}
	pen := store.Product{ID: 8, Name: "Pen", PriceCents: 250, InternalCode: "INTERNAL-456"}

	return store.Order{
		ID:       1001,
		Customer: ada,
		Status:   store.StatusPaid,
		Items: []store.OrderItem{
			{Product: notebook, Quantity: 1, UnitPrice: notebook.PriceCents},
			{Product: pen, Quantity: 3, UnitPrice: pen.PriceCents},
		},
		OrderedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func runDemo(w io.Writer, m *mapper.Mapper) error {
	order := sampleOrder()

	address, err := mapper.Map[warehouse.AddressDTO](m, order.Customer.Address)
	if err != nil {
		return err
	}
	section(w, "conventions", address)

	product, err := mapper.Map[warehouse.ProductDTO](m, order.Items[0].Product)
	if err != nil {
		return err
	}
	section(w, "tags", product)

	user, err := mapper.Map[warehouse.UserDTO](m, order.Customer)
	if err != nil {
		return err
	}
	section(w, "resolvers", user)

	products, err := mapper.MapEach[warehouse.ProductDTO](m, []store.Product{order.Items[0].Product, order.Items[1].Product})
	if err != nil {
		return err
	}
	section(w, "collections", products)

	dto, err := mapper.Map[warehouse.OrderDTO](m, &order)
	if err != nil {
		return err
	}
	section(w, "nested", dto)

	report, err := m.Report(reflect.TypeFor[store.Order](), reflect.TypeFor[warehouse.OrderDTO]())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "== plan ==\n%s", report)

	return nil
}

func section(w io.Writer, title string, v any) {
	_, _ = fmt.Fprintf(w, "== %s ==\n", title)
	dump.Fdump(w, v)
}
