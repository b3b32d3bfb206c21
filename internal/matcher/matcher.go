package matcher

import (
	"strings"

	"github.com/seitarof/gometa/pkg/meta"
	"github.com/seitarof/gometa/pkg/service"
)

// ClassMatcher finds classes by name.
type ClassMatcher interface {
	MatchClasses(s service.Service, names []string) (found []*meta.Class, missing []string)
}

// MemberMatcher selects the members of a class to report.
type MemberMatcher interface {
	Match(cls *meta.Class, members, ignoreMembers []string) []meta.Item
}

type classMatcherImpl struct{}

type memberMatcherImpl struct{}

// NewClassMatcher returns the default class matcher.
func NewClassMatcher() ClassMatcher {
	return &classMatcherImpl{}
}

// NewMemberMatcher returns the default member matcher.
func NewMemberMatcher() MemberMatcher {
	return &memberMatcherImpl{}
}

// MatchClasses looks each name up exactly first, then case-insensitively among every
// class of every module. An empty name list selects all top-level classes.
func (m *classMatcherImpl) MatchClasses(s service.Service, names []string) ([]*meta.Class, []string) {
	var all []*meta.Class
	for i := 0; i < s.ModuleCount(); i++ {
		meta.Walk(s.GlobalClass(i), func(item meta.Item) bool {
			if c, ok := item.(*meta.Class); ok && !c.IsGlobal() {
				all = append(all, c)
			}
			return true
		})
	}
	if len(names) == 0 {
		return all, nil
	}

	byLower := make(map[string]*meta.Class, len(all))
	for _, c := range all {
		for _, key := range []string{c.Name(), c.QualifiedName()} {
			lower := strings.ToLower(key)
			if _, ok := byLower[lower]; !ok {
				byLower[lower] = c
			}
		}
	}

	found := make([]*meta.Class, 0, len(names))
	var missing []string
	for _, name := range names {
		if c := s.FindClassByName(name); c != nil {
			found = append(found, c)
			continue
		}
		if c, ok := byLower[strings.ToLower(name)]; ok {
			found = append(found, c)
			continue
		}
		missing = append(missing, name)
	}
	return found, missing
}

// Match returns the members of cls in registration order. Names compare
// case-insensitively; an empty members list selects everything not ignored.
func (m *memberMatcherImpl) Match(cls *meta.Class, members, ignoreMembers []string) []meta.Item {
	ignoreSet := toSet(ignoreMembers)
	wantSet := toSet(members)

	items := make([]meta.Item, 0, cls.MetaCount())
	for i := 0; i < cls.MetaCount(); i++ {
		item := cls.MetaAt(i)
		lower := strings.ToLower(item.Name())
		if ignoreSet[lower] {
			continue
		}
		if len(wantSet) > 0 && !wantSet[lower] {
			continue
		}
		items = append(items, item)
	}
	return items
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(strings.ToLower(n))
		if n == "" {
			continue
		}
		set[n] = true
	}
	return set
}
