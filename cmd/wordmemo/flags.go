package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/wordmemo/internal/filter"
	"github.com/at-ishikawa/wordmemo/internal/learning"
)

// StatusFlag is a learning status filter, or "all".
type StatusFlag string

// Set implements pflag.Value.
func (s *StatusFlag) Set(v string) error {
	if strings.EqualFold(strings.TrimSpace(v), filter.All) {
		*s = StatusFlag(filter.All)
		return nil
	}
	status, err := learning.ParseStatus(v)
	if err != nil {
		return err
	}
	*s = StatusFlag(status)
	return nil
}

func (s *StatusFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func (s *StatusFlag) Type() string {
	return "StatusFlag"
}

// LengthFlag is a word length range such as "3-5".
type LengthFlag string

// Set implements pflag.Value.
func (l *LengthFlag) Set(v string) error {
	r, err := filter.ParseRange(v)
	if err != nil {
		return err
	}
	criteria := filter.DefaultCriteria()
	criteria.WordLength = r
	if err := criteria.Validate(); err != nil {
		return err
	}
	*l = LengthFlag(strings.TrimSpace(v))
	return nil
}

func (l *LengthFlag) String() string {
	if l == nil {
		return ""
	}
	return string(*l)
}

func (l *LengthFlag) Type() string {
	return "LengthFlag"
}

var (
	_ pflag.Value = (*StatusFlag)(nil)
	_ pflag.Value = (*LengthFlag)(nil)
)
