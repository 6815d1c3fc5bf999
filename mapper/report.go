package mapper

import (
	"fmt"
	"reflect"
	"strings"

	"automapper/node"
)

// Report describes the compiled plan of one type pair.
type Report struct {
	Pair      node.TypePair
	Converter string
	Members   []MemberReport
	// Notes are the warnings and infos found while compiling.
	Notes []string
}

// MemberReport is the outcome for one destination member.
type MemberReport struct {
	Member   string
	Source   string
	From     string
	Strategy string
}

// Report compiles the pair if needed and describes how each destination
// member is populated.
func (m *Mapper) Report(src, dst reflect.Type) (Report, error) {
	pair := node.PairOf(src, dst)

	p, err := m.plan(pair)
	if err != nil {
		return Report{}, err
	}

	r := Report{Pair: pair}
	if p.Converter != nil {
		r.Converter = p.Converter.String()
	}

	for _, s := range p.Steps {
		r.Members = append(r.Members, MemberReport{
			Member:   s.Member,
			Source:   s.Source.String(),
			From:     s.From,
			Strategy: s.Strategy.String(),
		})
	}

	for _, s := range p.Skipped {
		r.Members = append(r.Members, MemberReport{Member: s.Member, Source: s.Source.String()})
	}

	for _, d := range p.Diagnostics.Warnings {
		r.Notes = append(r.Notes, d.Severity.String()+": "+d.String())
	}

	for _, d := range p.Diagnostics.Infos {
		r.Notes = append(r.Notes, d.Severity.String()+": "+d.String())
	}

	return r, nil
}

func (r Report) String() string {
	var sb strings.Builder

	sb.WriteString(r.Pair.String())
	sb.WriteByte('\n')

	if r.Converter != "" {
		fmt.Fprintf(&sb, "  converter %s\n", r.Converter)
	}

	for _, mr := range r.Members {
		switch mr.From {
		case "":
			fmt.Fprintf(&sb, "  %-16s %s\n", mr.Member, mr.Source)
		default:
			fmt.Fprintf(&sb, "  %-16s %s %s (%s)\n", mr.Member, mr.Source, mr.From, mr.Strategy)
		}
	}

	for _, n := range r.Notes {
		fmt.Fprintf(&sb, "  %s\n", n)
	}

	return sb.String()
}
