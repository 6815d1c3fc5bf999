package plan_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automapper/internal/plan"
	"automapper/node"
	"automapper/options"
	"automapper/primitive"
	"automapper/profile"
)

type Address struct {
	City   string
	Street string
}

type AddressDTO struct {
	City string
}

type Customer struct {
	ID        int32
	FirstName string
	LastName  string
	Email     string `map:"to=Contact"`
	Secret    string `map:"-"`
	Address   *Address
	Tags      []string
	Scores    map[string]int32
	BirthDate time.Time
}

func (c Customer) FullName() string { return c.FirstName + " " + c.LastName }

type CustomerDTO struct {
	ID       int64
	Name     string `map:"from=FullName"`
	Contact  string
	Secret   string
	Address  AddressDTO
	Tags     []string
	Scores   map[string]int64
	Birthday time.Time
	Internal string `map:"-"`
}

// runner maps nested structs without caching, the way a mapper would.
type runner struct {
	opts   options.Options
	misses []options.Miss
}

func (r *runner) MapNested(src reflect.Value, dst reflect.Type) (reflect.Value, bool, error) {
	p, err := plan.Build(node.PairOf(src.Type(), dst), nil, r.opts)
	if err != nil {
		return reflect.Value{}, false, err
	}

	out := reflect.New(dst).Elem()

	return out, true, p.Apply(src, out, r)
}

func (r *runner) Miss(m options.Miss) { r.misses = append(r.misses, m) }

func apply[S, D any](t *testing.T, p *plan.Plan, src S) (D, *runner) {
	t.Helper()

	r := &runner{opts: options.Default()}

	var dst D
	srcVal := reflect.New(reflect.TypeFor[S]()).Elem()
	srcVal.Set(reflect.ValueOf(src))
	require.NoError(t, p.Apply(srcVal, reflect.ValueOf(&dst).Elem(), r))

	return dst, r
}

func build[S, D any](t *testing.T, tm *profile.TypeMap, opts ...options.Option) *plan.Plan {
	t.Helper()

	p, err := plan.Build(node.PairOf(reflect.TypeFor[S](), reflect.TypeFor[D]()), tm, options.Apply(opts...))
	require.NoError(t, err)

	return p
}

func steps(p *plan.Plan) map[string]string {
	out := make(map[string]string, len(p.Steps))
	for _, s := range p.Steps {
		out[s.Member] = s.Source.String() + ":" + s.From + ":" + s.Strategy.String()
	}

	return out
}

func TestBuildConventions(t *testing.T) {
	t.Parallel()

	p := build[Customer, CustomerDTO](t, nil)

	assert.Equal(t, map[string]string{
		"ID":      "name:ID:convert",
		"Name":    "tag:from:FullName:direct_assign",
		"Contact": "tag:to:Email:direct_assign",
		"Address": "name:Address:pointer_deref",
		"Tags":    "name:Tags:direct_assign",
		"Scores":  "name:Scores:map_map",
	}, steps(p))

	assert.Equal(t, []plan.Skipped{
		{Member: "Secret", Source: plan.MappingSourceUnmapped},
		{Member: "Birthday", Source: plan.MappingSourceUnmapped},
		{Member: "Internal", Source: plan.MappingSourceIgnored},
	}, p.Skipped)

	assert.Equal(t, []node.TypePair{node.PairOf(reflect.TypeFor[Address](), reflect.TypeFor[AddressDTO]())}, p.Needs)

	require.Len(t, p.Diagnostics.Infos, 2)
	birthday := p.Diagnostics.Infos[1]
	assert.Equal(t, "Birthday", birthday.Member)
	assert.Contains(t, birthday.Suggestions, "BirthDate")
	assert.NotContains(t, p.Diagnostics.Infos[0].Suggestions, "Secret")
}

func TestBuildRenamePrecedence(t *testing.T) {
	t.Parallel()

	type Src struct {
		Name     string
		Nickname string
	}

	type Dst struct {
		Name string `map:"from=Nickname"`
	}

	p := build[Src, Dst](t, nil)
	got, _ := apply[Src, Dst](t, p, Src{Name: "Robert", Nickname: "Bob"})

	assert.Equal(t, "Bob", got.Name)
}

func TestBuildNormalizedNames(t *testing.T) {
	t.Parallel()

	type Row struct {
		Customer_ID int
		Order_No    string
	}

	type Order struct {
		CustomerID int
		OrderNo    string
	}

	off := build[Row, Order](t, nil)
	assert.Empty(t, off.Steps)

	on := build[Row, Order](t, nil, options.WithNameNormalization())
	got, _ := apply[Row, Order](t, on, Row{Customer_ID: 7, Order_No: "A-1"})

	assert.Equal(t, Order{CustomerID: 7, OrderNo: "A-1"}, got)
	assert.Equal(t, plan.MappingSourceNormalized, on.Steps[0].Source)
}

func TestBuildExplicitRules(t *testing.T) {
	t.Parallel()

	type Dst struct {
		City     string
		Initials string
		ID       int64
	}

	p := profile.NewProfile("rules")
	profile.CreateMap[Customer, Dst](p).
		ForMember("City", func(o *profile.MemberOptions[Customer]) { o.MapFrom("Address.City") }).
		ForMember("Initials", func(o *profile.MemberOptions[Customer]) {
			o.ResolveUsing(func(c *Customer) string { return c.FirstName[:1] + c.LastName[:1] })
		}).
		Ignore("ID")
	require.NoError(t, p.Err())

	pl := build[Customer, Dst](t, p.TypeMaps()[0])

	got, _ := apply[Customer, Dst](t, pl, Customer{ID: 3, FirstName: "Jo", LastName: "Li", Address: &Address{City: "Oslo"}})
	assert.Equal(t, Dst{City: "Oslo", Initials: "JL"}, got)

	// nil pointer on the path leaves the member untouched
	got, _ = apply[Customer, Dst](t, pl, Customer{FirstName: "Jo", LastName: "Li"})
	assert.Equal(t, Dst{Initials: "JL"}, got)
}

func TestBuildConfigurationErrors(t *testing.T) {
	t.Parallel()

	type Dst struct {
		City string
	}

	t.Run("unknown source path", func(t *testing.T) {
		t.Parallel()

		p := profile.NewProfile("bad")
		profile.CreateMap[Customer, Dst](p).
			ForMember("City", func(o *profile.MemberOptions[Customer]) { o.MapFrom("Address.Town") })

		_, err := plan.Build(p.TypeMaps()[0].Pair(), p.TypeMaps()[0], options.Default())
		require.ErrorIs(t, err, plan.ErrUnknownSourcePath)
		assert.Contains(t, err.Error(), "Address.Town")
	})

	t.Run("unknown member", func(t *testing.T) {
		t.Parallel()

		p := profile.NewProfile("bad")
		profile.CreateMap[Customer, Dst](p).Ignore("Cty")

		_, err := plan.Build(p.TypeMaps()[0].Pair(), p.TypeMaps()[0], options.Default())
		require.ErrorIs(t, err, plan.ErrUnknownMember)
		assert.Contains(t, err.Error(), "City")
	})

	t.Run("member rules on non struct types", func(t *testing.T) {
		t.Parallel()

		p := profile.NewProfile("bad")
		profile.CreateMap[[]Customer, []Dst](p).Ignore("City")

		_, err := plan.Build(p.TypeMaps()[0].Pair(), p.TypeMaps()[0], options.Default())
		require.ErrorIs(t, err, plan.ErrNotStruct)
	})
}

func TestIgnoreBeatsRule(t *testing.T) {
	t.Parallel()

	type Src struct{ Name string }
	type Dst struct {
		Name string `map:"-"`
	}

	p := profile.NewProfile("shadow")
	profile.CreateMap[Src, Dst](p).ForMember("Name", func(o *profile.MemberOptions[Src]) { o.MapFrom("Name") })

	pl := build[Src, Dst](t, p.TypeMaps()[0])
	assert.Empty(t, pl.Steps)
	require.Len(t, pl.Diagnostics.Warnings, 1)
	assert.Equal(t, "shadowed-rule", pl.Diagnostics.Warnings[0].Code)
}

func TestApplyConversions(t *testing.T) {
	t.Parallel()

	p := build[Customer, CustomerDTO](t, nil)

	src := Customer{
		ID:        42,
		FirstName: "Jo",
		LastName:  "Li",
		Email:     "jo@example.com",
		Secret:    "s3cr3t",
		Address:   &Address{City: "Oslo", Street: "Main"},
		Tags:      []string{"a", "b"},
		Scores:    map[string]int32{"x": 1},
	}

	got, r := apply[Customer, CustomerDTO](t, p, src)

	assert.Equal(t, CustomerDTO{
		ID:      42,
		Name:    "Jo Li",
		Contact: "jo@example.com",
		Address: AddressDTO{City: "Oslo"},
		Tags:    []string{"a", "b"},
		Scores:  map[string]int64{"x": 1},
	}, got)
	assert.Empty(t, r.misses)

	// absent optional into a value is a conversion miss
	src.Address = nil
	got, r = apply[Customer, CustomerDTO](t, p, src)
	assert.Equal(t, AddressDTO{}, got.Address)
	require.Len(t, r.misses, 1)
	assert.Equal(t, "Address", r.misses[0].Member)
	assert.Equal(t, "nil value", r.misses[0].Reason)
}

func TestApplyOptionals(t *testing.T) {
	t.Parallel()

	type Src struct {
		Age   *int32
		Score int32
		Name  *string
	}

	type Dst struct {
		Age   *int64
		Score *int64
		Name  string
	}

	p := build[Src, Dst](t, nil)

	age, name := int32(30), "Jo"
	got, _ := apply[Src, Dst](t, p, Src{Age: &age, Score: 5, Name: &name})
	require.NotNil(t, got.Age)
	require.NotNil(t, got.Score)
	assert.Equal(t, int64(30), *got.Age)
	assert.Equal(t, int64(5), *got.Score)
	assert.Equal(t, "Jo", got.Name)

	got, r := apply[Src, Dst](t, p, Src{})
	assert.Nil(t, got.Age)
	assert.Empty(t, got.Name)
	assert.Len(t, r.misses, 1)
}

func TestApplyCollections(t *testing.T) {
	t.Parallel()

	type Src struct {
		Lines  []Address
		Fixed  [3]int8
		Short  []int
		Raw    []byte
		ByCity map[string]*Address
	}

	type Dst struct {
		Lines  []AddressDTO
		Fixed  []int64
		Short  [2]int
		Raw    string
		ByCity map[string]AddressDTO
	}

	p := build[Src, Dst](t, nil)

	got, _ := apply[Src, Dst](t, p, Src{
		Lines:  []Address{{City: "A"}, {City: "B"}, {City: "C"}},
		Fixed:  [3]int8{1, 2, 3},
		Short:  []int{9},
		Raw:    []byte("raw"),
		ByCity: map[string]*Address{"o": {City: "Oslo"}, "nil": nil},
	})

	assert.Equal(t, []AddressDTO{{City: "A"}, {City: "B"}, {City: "C"}}, got.Lines)
	assert.Equal(t, []int64{1, 2, 3}, got.Fixed)
	assert.Equal(t, [2]int{9, 0}, got.Short)
	assert.Equal(t, "raw", got.Raw)
	assert.Equal(t, map[string]AddressDTO{"o": {City: "Oslo"}, "nil": {}}, got.ByCity)

	got, _ = apply[Src, Dst](t, p, Src{})
	assert.Nil(t, got.Lines)
	assert.Nil(t, got.ByCity)
}

func TestApplyConversionMiss(t *testing.T) {
	t.Parallel()

	type Src struct {
		Count int64
		When  time.Time
	}

	type Dst struct {
		Count int8
		When  string
	}

	p := build[Src, Dst](t, nil)
	require.Len(t, p.Diagnostics.Warnings, 1)
	assert.Equal(t, "When", p.Diagnostics.Warnings[0].Member)

	got, r := apply[Src, Dst](t, p, Src{Count: 1000, When: time.Now()})
	assert.Equal(t, Dst{}, got)
	require.Len(t, r.misses, 2)
	assert.Equal(t, "Count", r.misses[0].Member)
	assert.Equal(t, "When", r.misses[1].Member)

	with := build[Src, Dst](t, nil, options.WithExtraConversions(primitive.CategoryDatetime))
	assert.Empty(t, with.Diagnostics.Warnings)
}

func TestApplyResolverError(t *testing.T) {
	t.Parallel()

	type Dst struct{ Name string }

	boom := errors.New("boom")

	p := profile.NewProfile("err")
	profile.CreateMap[Customer, Dst](p).ForMember("Name", func(o *profile.MemberOptions[Customer]) {
		o.ResolveUsing(func(Customer) (string, error) { return "", boom })
	})

	pl := build[Customer, Dst](t, p.TypeMaps()[0])

	var dst Dst
	err := pl.Apply(reflect.ValueOf(Customer{}), reflect.ValueOf(&dst).Elem(), &runner{opts: options.Default()})
	require.ErrorIs(t, err, boom)
	assert.True(t, strings.HasPrefix(err.Error(), "Name: "))
}

func TestApplyConverter(t *testing.T) {
	t.Parallel()

	type Dst struct {
		Label string
		Count int
		Tags  []string
	}

	p := profile.NewProfile("conv")
	profile.CreateMap[Customer, Dst](p).ConvertUsing(func(c Customer) Dst {
		return Dst{Label: strings.ToUpper(c.FirstName)}
	})

	pl := build[Customer, Dst](t, p.TypeMaps()[0])
	require.NotNil(t, pl.Converter)

	dst := Dst{Label: "old", Count: 9, Tags: []string{"x"}}
	require.NoError(t, pl.Apply(reflect.ValueOf(Customer{FirstName: "jo"}), reflect.ValueOf(&dst).Elem(), &runner{}))

	assert.Equal(t, Dst{Label: "JO"}, dst)
}

func TestBuildRootConversion(t *testing.T) {
	t.Parallel()

	p := build[[]Address, []*AddressDTO](t, nil)
	require.Len(t, p.Needs, 1)

	got, _ := apply[[]Address, []*AddressDTO](t, p, []Address{{City: "A"}})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].City)
}

func ExampleBuild() {
	type User struct {
		ID        int
		FirstName string
		LastName  string
		Password  string
	}

	type UserDTO struct {
		ID       int
		FullName string
		Password string `map:"-"`
	}

	p := profile.NewProfile("users")
	profile.CreateMap[User, UserDTO](p).ForMember("FullName", func(o *profile.MemberOptions[User]) {
		o.ResolveUsing(func(u User) string { return u.FirstName + " " + u.LastName })
	})

	pl, err := plan.Build(p.TypeMaps()[0].Pair(), p.TypeMaps()[0], options.Default())
	if err != nil {
		panic(err)
	}

	for _, s := range pl.Steps {
		fmt.Println(s.Member, s.Source, s.Strategy)
	}

	for _, s := range pl.Skipped {
		fmt.Println(s.Member, s.Source)
	}

	// Output:
	// ID name direct_assign
	// FullName resolver direct_assign
	// Password ignored
}
