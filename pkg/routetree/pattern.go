package routetree

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wayfind-dev/wayfind/pkg/params"
	"github.com/wayfind-dev/wayfind/pkg/routepath"
)

type segmentKind int

const (
	segLiteral segmentKind = iota
	segParam
	segOptional
	segCatchAll
)

type segment struct {
	literal string // raw literal text, segLiteral only
	name    string // capture name, all other kinds
	kind    segmentKind
}

// Pattern is a compiled path template.
type Pattern struct {
	raw      string
	segments []segment
	names    []string
	minSegs  int
	maxSegs  int // -1 when a catch-all makes the pattern open-ended
}

// Compile parses a path template. Templates begin with "/" and are built
// from segments:
//
//	literal        matched byte-for-byte, case-sensitively
//	{name}  :name  captures exactly one segment
//	{name?} :name? optional capture, only in the trailing run
//	{rest...} *rest catch-all capturing one or more remaining segments,
//	               only as the final segment
func Compile(raw string) (*Pattern, error) {
	if raw == "" || raw[0] != '/' {
		return nil, &PatternError{Pattern: raw, Reason: "must begin with /"}
	}

	p := &Pattern{raw: raw}
	parts := routepath.Segments(raw)
	seen := make(map[string]bool)
	optionalRun := false

	for i, part := range parts {
		seg, reason := parseSegment(part)
		if reason != "" {
			return nil, &PatternError{Pattern: raw, Reason: reason}
		}

		switch seg.kind {
		case segLiteral:
			if optionalRun {
				return nil, &PatternError{Pattern: raw, Reason: fmt.Sprintf("segment %q follows an optional segment", part)}
			}

		case segParam:
			if optionalRun {
				return nil, &PatternError{Pattern: raw, Reason: fmt.Sprintf("segment %q follows an optional segment", part)}
			}

		case segOptional:
			optionalRun = true

		case segCatchAll:
			if optionalRun {
				return nil, &PatternError{Pattern: raw, Reason: "catch-all cannot follow optional segments"}
			}
			if i != len(parts)-1 {
				return nil, &PatternError{Pattern: raw, Reason: "catch-all must be the final segment"}
			}
		}

		if seg.kind != segLiteral {
			if seen[seg.name] {
				return nil, &PatternError{Pattern: raw, Reason: fmt.Sprintf("duplicate parameter %q", seg.name)}
			}
			seen[seg.name] = true
			p.names = append(p.names, seg.name)
		}

		p.segments = append(p.segments, seg)
	}

	p.minSegs, p.maxSegs = segmentBounds(p.segments)
	return p, nil
}

// MustCompile is Compile for patterns known good at program start.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(part string) (segment, string) {
	switch {
	case strings.HasPrefix(part, "{"):
		if !strings.HasSuffix(part, "}") {
			return segment{}, fmt.Sprintf("unterminated capture %q", part)
		}
		name := part[1 : len(part)-1]
		kind := segParam
		switch {
		case strings.HasSuffix(name, "..."):
			name = strings.TrimSuffix(name, "...")
			kind = segCatchAll
		case strings.HasSuffix(name, "?"):
			name = strings.TrimSuffix(name, "?")
			kind = segOptional
		}
		if name == "" {
			return segment{}, fmt.Sprintf("empty parameter name in %q", part)
		}
		return segment{name: name, kind: kind}, ""

	case strings.HasPrefix(part, ":"):
		name := part[1:]
		kind := segParam
		if strings.HasSuffix(name, "?") {
			name = strings.TrimSuffix(name, "?")
			kind = segOptional
		}
		if name == "" {
			return segment{}, fmt.Sprintf("empty parameter name in %q", part)
		}
		return segment{name: name, kind: kind}, ""

	case strings.HasPrefix(part, "*"):
		name := part[1:]
		if name == "" {
			return segment{}, fmt.Sprintf("empty parameter name in %q", part)
		}
		return segment{name: name, kind: segCatchAll}, ""

	default:
		return segment{literal: part, kind: segLiteral}, ""
	}
}

func segmentBounds(segs []segment) (min, max int) {
	for _, seg := range segs {
		switch seg.kind {
		case segLiteral, segParam:
			min++
			max++
		case segOptional:
			max++
		case segCatchAll:
			// Consumes at least one segment, then anything.
			min++
			max = -1
			return min, max
		}
	}
	return min, max
}

// Match tests the pattern against the raw, still-encoded segments of a
// request path. On success it returns the percent-decoded captures. An
// optional that matched nothing contributes no key. A single-segment
// capture refuses values that decode to contain "/"; such paths can only
// be claimed by a catch-all.
func (p *Pattern) Match(segs []string) (map[string]string, bool) {
	if len(segs) < p.minSegs {
		return nil, false
	}
	if p.maxSegs >= 0 && len(segs) > p.maxSegs {
		return nil, false
	}

	var captures map[string]string
	set := func(name, val string) {
		if captures == nil {
			captures = make(map[string]string, len(p.names))
		}
		captures[name] = val
	}

	si := 0
	for _, seg := range p.segments {
		switch seg.kind {
		case segLiteral:
			if si >= len(segs) || segs[si] != seg.literal {
				return nil, false
			}
			si++

		case segParam:
			if si >= len(segs) {
				return nil, false
			}
			val, err := routepath.DecodeSegment(segs[si], false)
			if err != nil {
				return nil, false
			}
			set(seg.name, val)
			si++

		case segOptional:
			if si < len(segs) {
				val, err := routepath.DecodeSegment(segs[si], false)
				if err != nil {
					return nil, false
				}
				set(seg.name, val)
				si++
			}

		case segCatchAll:
			if si >= len(segs) {
				return nil, false
			}
			parts := make([]string, 0, len(segs)-si)
			for ; si < len(segs); si++ {
				val, err := routepath.DecodeSegment(segs[si], true)
				if err != nil {
					return nil, false
				}
				parts = append(parts, val)
			}
			set(seg.name, strings.Join(parts, "/"))
		}
	}

	if si != len(segs) {
		return nil, false
	}
	return captures, true
}

// Fill interpolates the pattern's captures from a bag into a concrete
// path, percent-encoding each value. Absent optionals are omitted together
// with their slash; an absent required capture is a MissingParamError.
// Catch-all values keep their "/" separators, each piece encoded.
func (p *Pattern) Fill(bag params.Bag) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var sb strings.Builder
	for _, seg := range p.segments {
		switch seg.kind {
		case segLiteral:
			sb.WriteByte('/')
			sb.WriteString(seg.literal)

		case segParam, segCatchAll:
			val, ok := bag[seg.name]
			if !ok {
				return "", &MissingParamError{Param: seg.name}
			}
			s, ok := params.Format(val)
			if !ok {
				return "", &params.SerializationError{Key: seg.name, Type: fmt.Sprintf("%T", val)}
			}
			if seg.kind == segCatchAll {
				for _, piece := range strings.Split(s, "/") {
					sb.WriteByte('/')
					sb.WriteString(url.PathEscape(piece))
				}
			} else {
				sb.WriteByte('/')
				sb.WriteString(url.PathEscape(s))
			}

		case segOptional:
			val, ok := bag[seg.name]
			if !ok {
				continue
			}
			s, ok := params.Format(val)
			if !ok {
				return "", &params.SerializationError{Key: seg.name, Type: fmt.Sprintf("%T", val)}
			}
			sb.WriteByte('/')
			sb.WriteString(url.PathEscape(s))
		}
	}

	if sb.Len() == 0 {
		return "/", nil
	}
	return sb.String(), nil
}

// ParamNames returns the capture names in template order.
func (p *Pattern) ParamNames() []string { return p.names }

// HasParams reports whether the pattern captures anything.
func (p *Pattern) HasParams() bool { return len(p.names) > 0 }

// RequiredParams returns the names of captures that must be supplied to
// Fill: plain and catch-all captures, not optionals.
func (p *Pattern) RequiredParams() []string {
	var req []string
	for _, seg := range p.segments {
		if seg.kind == segParam || seg.kind == segCatchAll {
			req = append(req, seg.name)
		}
	}
	return req
}

// String returns the original template text.
func (p *Pattern) String() string { return p.raw }
