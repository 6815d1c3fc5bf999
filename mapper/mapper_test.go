package mapper_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"automapper/internal/plan"
	"automapper/mapper"
	"automapper/options"
	"automapper/profile"
)

type User struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
}

type UserDTO struct {
	ID       int
	FullName string
	Email    string
}

type Node struct {
	Name     string
	Next     *Node
	Children []*Node
}

type NodeDTO struct {
	Name     string
	Next     *NodeDTO
	Children []*NodeDTO
}

type Badge struct{}

func (Badge) Label() string { return "badge" }

type Holder struct {
	*Badge

	ID int
}

type HolderDTO struct {
	ID    int
	Label string
}

func usersConfig(t *testing.T) *profile.Configuration {
	t.Helper()

	p := profile.NewProfile("users")
	profile.CreateMap[User, UserDTO](p).ForMember("FullName", func(o *profile.MemberOptions[User]) {
		o.ResolveUsing(func(u User) string { return u.FirstName + " " + u.LastName })
	})

	cfg, err := profile.NewConfiguration(p)
	require.NoError(t, err)

	return cfg
}

func TestMapResolver(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))

	dto, err := mapper.Map[UserDTO](m, User{ID: 1, FirstName: "Jo", LastName: "Li"})
	require.NoError(t, err)
	assert.Equal(t, UserDTO{ID: 1, FullName: "Jo Li"}, dto)
}

func TestMapSameNames(t *testing.T) {
	t.Parallel()

	type Src struct {
		A int
		B string
		C []float64
	}

	type Dst struct {
		A int
		B string
		C []float64
	}

	src := Src{A: 1, B: "b", C: []float64{1.5}}

	dst, err := mapper.Map[Dst](mapper.New(nil), src)
	require.NoError(t, err)
	assert.Equal(t, Dst(src), dst)
}

func TestMapIntoIdempotent(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))
	src := User{ID: 2, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}

	var once, twice UserDTO
	require.NoError(t, mapper.MapInto(m, src, &once))
	require.NoError(t, mapper.MapInto(m, src, &twice))
	require.NoError(t, mapper.MapInto(m, src, &twice))

	assert.Equal(t, once, twice)
}

func TestMapIntoKeepsUnmapped(t *testing.T) {
	t.Parallel()

	type Patch struct {
		Email string
	}

	dst := UserDTO{ID: 9, FullName: "Kept", Email: "old"}
	require.NoError(t, mapper.MapInto(mapper.New(nil), Patch{Email: "new"}, &dst))

	assert.Equal(t, UserDTO{ID: 9, FullName: "Kept", Email: "new"}, dst)
}

func TestIgnorePrecedence(t *testing.T) {
	t.Parallel()

	fromFirstName := func(o *profile.MemberOptions[User]) { o.MapFrom("FirstName") }

	tests := []struct {
		name     string
		declare  func(b *profile.MapBuilder[User, UserDTO])
		shadowed bool
	}{
		{
			name:    "ignore only",
			declare: func(b *profile.MapBuilder[User, UserDTO]) { b.Ignore("Email") },
		},
		{
			name: "ignore then rule",
			declare: func(b *profile.MapBuilder[User, UserDTO]) {
				b.Ignore("Email").ForMember("Email", fromFirstName)
			},
			shadowed: true,
		},
		{
			name: "rule then ignore",
			declare: func(b *profile.MapBuilder[User, UserDTO]) {
				b.ForMember("Email", fromFirstName).Ignore("Email")
			},
			shadowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := profile.NewProfile("ignore")
			tt.declare(profile.CreateMap[User, UserDTO](p))

			cfg, err := profile.NewConfiguration(p)
			require.NoError(t, err)

			m := mapper.New(cfg)

			dst := UserDTO{Email: "keep"}
			require.NoError(t, mapper.MapInto(m, User{FirstName: "a", Email: "drop"}, &dst))
			assert.Equal(t, "keep", dst.Email)

			report, err := m.Report(reflect.TypeFor[User](), reflect.TypeFor[UserDTO]())
			require.NoError(t, err)
			assert.Equal(t, tt.shadowed, strings.Contains(report.String(), "[shadowed-rule]"), report.String())
		})
	}
}

func TestPromotedMethodBehindNilPointer(t *testing.T) {
	t.Parallel()

	m := mapper.New(nil)

	dto, err := mapper.Map[HolderDTO](m, Holder{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, HolderDTO{ID: 3}, dto)

	dto = HolderDTO{Label: "kept"}
	require.NoError(t, mapper.MapInto(m, Holder{ID: 4}, &dto))
	assert.Equal(t, HolderDTO{ID: 4, Label: "kept"}, dto)

	dto, err = mapper.Map[HolderDTO](m, Holder{Badge: &Badge{}, ID: 5})
	require.NoError(t, err)
	assert.Equal(t, HolderDTO{ID: 5, Label: "badge"}, dto)
}

func TestSelfReference(t *testing.T) {
	t.Parallel()

	m := mapper.New(nil)

	t.Run("self loop", func(t *testing.T) {
		t.Parallel()

		n := &Node{Name: "a"}
		n.Next = n

		dto, err := mapper.Map[*NodeDTO](m, n)
		require.NoError(t, err)
		require.NotNil(t, dto)
		assert.Equal(t, "a", dto.Name)
		assert.Nil(t, dto.Next)
	})

	t.Run("longer cycle", func(t *testing.T) {
		t.Parallel()

		a := &Node{Name: "a"}
		b := &Node{Name: "b", Next: a}
		a.Next = b
		a.Children = []*Node{b, a}

		dto, err := mapper.Map[NodeDTO](m, a)
		require.NoError(t, err)
		require.NotNil(t, dto.Next)
		assert.Equal(t, "b", dto.Next.Name)
		assert.Nil(t, dto.Next.Next, spew.Sdump(dto))

		require.Len(t, dto.Children, 2)
		assert.Equal(t, "b", dto.Children[0].Name)
		assert.Nil(t, dto.Children[1])
	})

	t.Run("shared but acyclic", func(t *testing.T) {
		t.Parallel()

		leaf := &Node{Name: "leaf"}
		root := Node{Name: "root", Children: []*Node{leaf, leaf}}

		dto, err := mapper.Map[NodeDTO](m, root)
		require.NoError(t, err)
		require.Len(t, dto.Children, 2)
		assert.Equal(t, "leaf", dto.Children[0].Name)
		assert.Equal(t, "leaf", dto.Children[1].Name)
	})
}

func TestMapEach(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))
	users := []User{
		{ID: 1, FirstName: "A", LastName: "One"},
		{ID: 2, FirstName: "B", LastName: "Two"},
		{ID: 3, FirstName: "C", LastName: "Three"},
	}

	dtos, err := mapper.MapEach[UserDTO](m, users)
	require.NoError(t, err)
	require.Len(t, dtos, 3)

	for i, u := range users {
		single, err := mapper.Map[UserDTO](m, u)
		require.NoError(t, err)
		assert.Equal(t, single, dtos[i])
	}

	all, err := mapper.Map[[]UserDTO](m, users)
	require.NoError(t, err)
	assert.Equal(t, dtos, all)

	none, err := mapper.MapEach[UserDTO, User](m, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMapEachError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	p := profile.NewProfile("err")
	profile.CreateMap[User, UserDTO](p).ForMember("FullName", func(o *profile.MemberOptions[User]) {
		o.ResolveUsing(func(u User) (string, error) {
			if u.ID == 2 {
				return "", boom
			}
			return u.FirstName, nil
		})
	})

	cfg, err := profile.NewConfiguration(p)
	require.NoError(t, err)

	_, err = mapper.MapEach[UserDTO](mapper.New(cfg), []User{{ID: 1}, {ID: 2}})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "element 1")
	assert.Contains(t, err.Error(), "FullName")
}

func TestOptionals(t *testing.T) {
	t.Parallel()

	type Src struct {
		Age  *int
		Nick *string
	}

	type Dst struct {
		Age  *int64
		Nick string
	}

	var misses []options.Miss
	m := mapper.New(nil, options.WithMissHandler(func(miss options.Miss) { misses = append(misses, miss) }))

	dst, err := mapper.Map[Dst](m, Src{})
	require.NoError(t, err)
	assert.Nil(t, dst.Age)
	assert.Empty(t, dst.Nick)
	require.Len(t, misses, 1)
	assert.Equal(t, "Nick", misses[0].Member)

	age, nick := 40, "jo"
	dst, err = mapper.Map[Dst](m, Src{Age: &age, Nick: &nick})
	require.NoError(t, err)
	require.NotNil(t, dst.Age)
	assert.Equal(t, int64(40), *dst.Age)
	assert.Equal(t, "jo", dst.Nick)
}

func TestNilSource(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))

	dto, err := mapper.Map[*UserDTO](m, (*User)(nil))
	require.NoError(t, err)
	assert.Nil(t, dto)

	value, err := mapper.Map[UserDTO](m, (*User)(nil))
	require.NoError(t, err)
	assert.Equal(t, UserDTO{}, value)

	dst := UserDTO{ID: 5}
	require.NoError(t, mapper.MapInto(m, (*User)(nil), &dst))
	assert.Equal(t, UserDTO{ID: 5}, dst)

	require.ErrorIs(t, mapper.MapInto[User, UserDTO](m, User{}, nil), mapper.ErrNilDestination)
}

func TestMapValue(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))

	var dto UserDTO
	require.NoError(t, m.MapValue(&User{ID: 3, FirstName: "X", LastName: "Y"}, &dto))
	assert.Equal(t, UserDTO{ID: 3, FullName: "X Y"}, dto)

	var ptr *UserDTO
	require.NoError(t, m.MapValue(User{ID: 4}, &ptr))
	require.NotNil(t, ptr)
	assert.Equal(t, 4, ptr.ID)

	require.NoError(t, m.MapValue(nil, &dto))
	require.ErrorIs(t, m.MapValue(User{}, dto), mapper.ErrNilDestination)
	require.ErrorIs(t, m.MapValue(User{}, nil), mapper.ErrNilDestination)
}

func TestConverter(t *testing.T) {
	t.Parallel()

	p := profile.NewProfile("conv")
	profile.CreateMap[User, UserDTO](p).ConvertUsing(func(u User) UserDTO {
		return UserDTO{ID: u.ID * 10}
	})

	cfg, err := profile.NewConfiguration(p)
	require.NoError(t, err)

	m := mapper.New(cfg)

	dto, err := mapper.Map[UserDTO](m, User{ID: 1, Email: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, UserDTO{ID: 10}, dto)

	existing := UserDTO{ID: 1, FullName: "overwritten", Email: "overwritten"}
	require.NoError(t, mapper.MapInto(m, User{ID: 2}, &existing))
	assert.Equal(t, UserDTO{ID: 20}, existing)
}

func TestConverterReplacesReferences(t *testing.T) {
	t.Parallel()

	type Inner struct{ V int }

	type Box struct {
		Name string
		In   *Inner
		Tags map[string]int
		note string
	}

	p := profile.NewProfile("conv")
	profile.CreateMap[User, Box](p).ConvertUsing(func(u User) Box {
		return Box{Name: u.FirstName, In: &Inner{V: u.ID}, Tags: map[string]int{"new": 1}}
	})

	cfg, err := profile.NewConfiguration(p)
	require.NoError(t, err)

	stale := &Inner{V: 5}
	dst := Box{Name: "old", In: stale, Tags: map[string]int{"old": 1}, note: "kept"}
	require.NoError(t, mapper.MapInto(mapper.New(cfg), User{ID: 1, FirstName: "Jo"}, &dst))

	require.NotNil(t, dst.In)
	assert.Equal(t, 1, dst.In.V, spew.Sdump(dst))
	assert.Equal(t, 5, stale.V)
	assert.Equal(t, map[string]int{"new": 1}, dst.Tags)
	assert.Equal(t, "Jo", dst.Name)
	assert.Equal(t, "kept", dst.note)

	empty := profile.NewProfile("empty")
	profile.CreateMap[User, Box](empty).ConvertUsing(func(User) Box { return Box{} })

	cfg, err = profile.NewConfiguration(empty)
	require.NoError(t, err)

	require.NoError(t, mapper.MapInto(mapper.New(cfg), User{}, &dst))
	assert.Nil(t, dst.In)
	assert.Nil(t, dst.Tags)
	assert.Equal(t, "kept", dst.note)
}

func TestConfigurationErrorsSurfaceOnFirstCall(t *testing.T) {
	t.Parallel()

	type Inner struct{ X int }
	type InnerDTO struct{ Y int }
	type Outer struct{ In *Inner }
	type OuterDTO struct{ In *InnerDTO }

	p := profile.NewProfile("nested")
	profile.CreateMap[Inner, InnerDTO](p).ForMember("Y", func(o *profile.MemberOptions[Inner]) { o.MapFrom("Z") })

	cfg, err := profile.NewConfiguration(p)
	require.NoError(t, err)

	m := mapper.New(cfg)

	// the nested value is nil, the broken nested map is still compiled
	_, err = mapper.Map[OuterDTO](m, Outer{})
	require.ErrorIs(t, err, plan.ErrUnknownSourcePath)

	require.ErrorIs(t, m.Validate(), plan.ErrUnknownSourcePath)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))
	require.NoError(t, m.Validate())

	p := profile.NewProfile("bad")
	profile.CreateMap[User, UserDTO](p).Ignore("Nope")

	cfg, err := profile.NewConfiguration(p)
	require.NoError(t, err)

	require.ErrorIs(t, mapper.New(cfg).Validate(), plan.ErrUnknownMember)
}

func TestSealed(t *testing.T) {
	t.Parallel()

	cfg := usersConfig(t)
	mapper.New(cfg)

	require.ErrorIs(t, cfg.AddProfile(profile.NewProfile("late")), profile.ErrSealed)
}

func TestReport(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))

	r, err := m.Report(reflect.TypeFor[*User](), reflect.TypeFor[UserDTO]())
	require.NoError(t, err)

	assert.Equal(t, []mapper.MemberReport{
		{Member: "ID", Source: "name", From: "ID", Strategy: "direct_assign"},
		{Member: "FullName", Source: "resolver", From: r.Members[1].From, Strategy: "direct_assign"},
		{Member: "Email", Source: "name", From: "Email", Strategy: "direct_assign"},
	}, r.Members)
	assert.Contains(t, r.String(), "FullName")
}

func TestConcurrentMapping(t *testing.T) {
	t.Parallel()

	m := mapper.New(usersConfig(t))

	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)

	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			dto, err := mapper.Map[UserDTO](m, User{ID: i, FirstName: "F", LastName: fmt.Sprint(i)})
			if err != nil || dto.ID != i || dto.FullName != fmt.Sprintf("F %d", i) {
				failed.Add(1)
			}
		}()
	}

	wg.Wait()
	assert.Zero(t, failed.Load())
}

func TestLogging(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	m := mapper.New(nil, options.WithLogger(zap.New(core)))

	n := &Node{Name: "a"}
	n.Next = n

	_, err := mapper.Map[NodeDTO](m, n)
	require.NoError(t, err)

	assert.NotZero(t, logs.FilterMessage("plan compiled").Len())
	assert.Equal(t, 1, logs.FilterMessage("cycle skipped").Len())
}

func Example() {
	p := profile.NewProfile("users")
	profile.CreateMap[User, UserDTO](p).ForMember("FullName", func(o *profile.MemberOptions[User]) {
		o.ResolveUsing(func(u User) string { return u.FirstName + " " + u.LastName })
	})

	cfg, err := profile.NewConfiguration(p)
	if err != nil {
		panic(err)
	}

	m := mapper.New(cfg)

	dto, err := mapper.Map[UserDTO](m, User{ID: 1, FirstName: "Jo", LastName: "Li"})
	if err != nil {
		panic(err)
	}

	fmt.Printf("%+v\n", dto)
	// Output:
	// {ID:1 FullName:Jo Li Email:}
}
